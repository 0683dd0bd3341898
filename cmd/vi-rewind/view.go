package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/vi-rewind/core"
	"github.com/lixenwraith/vi-rewind/engine"
	"github.com/lixenwraith/vi-rewind/physics"
	"github.com/lixenwraith/vi-rewind/vmath"
	"github.com/mattn/go-runewidth"
)

var (
	styleFrame      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBody       = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleProjectile = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleRecording  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorRed)
	stylePlaying    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleBarFill    = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleBarCursor  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

// bodyGlyphs shows orientation: a spinning sphere cycles through these
var bodyGlyphs = []rune{'o', 'O', '0', 'O'}

const (
	// hudRows are reserved under the scene: scrub bar, status, help
	hudRows  = 3
	helpText = "space:play/rec  p:pause  ←/→:step  [/]:seek 1s  home/end  f:fire  m:mute  q:quit"
)

// View draws a side projection (X right, Y up) of the world with a scrub bar
type View struct {
	screen   tcell.Screen
	world    *physics.World
	rw       *engine.Rewinder
	launcher *Launcher

	// Muted reports the cue player mute state for the HUD, optional
	Muted func() bool
}

// NewView binds the view to the scene it draws
func NewView(screen tcell.Screen, world *physics.World, rw *engine.Rewinder, launcher *Launcher) *View {
	return &View{screen: screen, world: world, rw: rw, launcher: launcher}
}

// project maps world X/Y into scene cell coordinates, false when outside the scene area
func (v *View) project(x, y float64, w, h int) (int, int, bool) {
	b := v.world.Bounds
	sx := (x - b.Min.X) / (b.Max.X - b.Min.X)
	sy := (y - b.Min.Y) / (b.Max.Y - b.Min.Y)
	if sx < 0 || sx > 1 || sy < 0 || sy > 1 {
		return 0, 0, false
	}
	col := 1 + int(math.Round(sx*float64(w-3)))
	row := 1 + int(math.Round((1-sy)*float64(h-3)))
	return col, row, true
}

// Draw renders one frame
func (v *View) Draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	sceneH := h - hudRows
	if w < 10 || sceneH < 4 {
		v.screen.Show()
		return
	}

	v.drawFrame(w, sceneH)

	v.world.Each(func(e core.Entity, b *physics.Body) {
		col, row, ok := v.project(b.Pose.Position.X, b.Pose.Position.Y, w, sceneH)
		if !ok {
			return
		}
		style := styleBody
		glyph := v.glyph(b)
		if v.launcher != nil && v.launcher.IsProjectile(e) {
			style, glyph = styleProjectile, '*'
		}
		v.screen.SetContent(col, row, glyph, nil, style)
	})

	v.drawScrubBar(sceneH, w)
	v.drawStatus(sceneH+1, w)
	drawText(v.screen, 0, sceneH+2, w, helpText, styleHelp)

	v.screen.Show()
}

// glyph picks a character from the body's roll around Z
func (v *View) glyph(b *physics.Body) rune {
	_, _, yaw := vmath.QToEuler(b.Pose.Rotation)
	i := int(math.Floor((yaw+math.Pi)/(2*math.Pi)*float64(len(bodyGlyphs)))) % len(bodyGlyphs)
	if i < 0 {
		i += len(bodyGlyphs)
	}
	return bodyGlyphs[i]
}

func (v *View) drawFrame(w, h int) {
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, 0, '─', nil, styleFrame)
		v.screen.SetContent(x, h-1, '═', nil, styleFrame)
	}
	for y := 1; y < h-1; y++ {
		v.screen.SetContent(0, y, '│', nil, styleFrame)
		v.screen.SetContent(w-1, y, '│', nil, styleFrame)
	}
}

// drawScrubBar shows the recorded span against capacity and the read cursor while playing
func (v *View) drawScrubBar(row, w int) {
	capacity := v.rw.Capacity()
	barW := w - 2
	if barW < 1 || capacity < 1 {
		return
	}

	filled := v.rw.WriteIndex() * barW / capacity
	v.screen.SetContent(0, row, '[', nil, styleFrame)
	for i := 0; i < barW; i++ {
		ch := '·'
		style := styleFrame
		if i < filled {
			ch, style = '━', styleBarFill
		}
		v.screen.SetContent(1+i, row, ch, nil, style)
	}
	v.screen.SetContent(w-1, row, ']', nil, styleFrame)

	if v.rw.IsInPlayback() {
		cursor := v.rw.ReadIndex() * barW / capacity
		if cursor >= barW {
			cursor = barW - 1
		}
		v.screen.SetContent(1+cursor, row, '▼', nil, styleBarCursor)
	}
}

func (v *View) drawStatus(row, w int) {
	label, style := " REC ", styleRecording
	if v.rw.IsInPlayback() {
		label, style = " PLAY ", stylePlaying
		if v.rw.IsPlaybackPaused() {
			label = " PAUSE "
		}
	}
	x := drawText(v.screen, 0, row, w, label, style)

	var info string
	if v.rw.IsInPlayback() {
		info = fmt.Sprintf(" %5.2fs / %5.2fs  blend %3.0f%%",
			v.rw.ReadPosition().Seconds(), v.rw.RecordedDuration().Seconds(), v.rw.Alpha()*100)
	} else {
		info = fmt.Sprintf(" %5.2fs / %5.2fs", v.rw.RecordedDuration().Seconds(), v.rw.Window().Seconds())
	}
	info += fmt.Sprintf("  objects %d", len(v.rw.Tracked()))
	if v.launcher != nil {
		info += fmt.Sprintf("  fired %d", v.launcher.Fired())
	}
	if v.Muted != nil && v.Muted() {
		info += "  [muted]"
	}
	drawText(v.screen, x, row, w-x, info, styleHelp)
}

// drawText writes s at (x, y) clipped to maxW display columns, returns the column after the text
func drawText(s tcell.Screen, x, y, maxW int, text string, style tcell.Style) int {
	if maxW <= 0 {
		return x
	}
	text = runewidth.Truncate(text, maxW, "…")
	col := x
	for _, r := range text {
		s.SetContent(col, y, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
	return col
}
