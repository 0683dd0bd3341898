package core

// Mode is the recorder/player state
type Mode uint8

const (
	ModeRecording Mode = iota
	ModePlaying
)

func (m Mode) String() string {
	switch m {
	case ModeRecording:
		return "recording"
	case ModePlaying:
		return "playing"
	default:
		return "unknown"
	}
}
