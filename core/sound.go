package core

// CueType represents the audio cues emitted during playback
type CueType int

const (
	CueFire  CueType = iota // Projectile launch / spawn marker
	CueReset                // Object reset marker
	CueTypeCount
)
