package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

// rowText reads one screen row back as a string
func rowText(s tcell.Screen, y, w int) string {
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestView_StatusShowsMode(t *testing.T) {
	s := newTestScene(t, 2, 1)
	s.run(10)
	screen := newSimScreen(t, 100, 30)
	v := NewView(screen, s.world, s.rw, s.host.launcher)

	v.Draw()
	status := rowText(screen, 30-hudRows+1, 100)
	assert.Contains(t, status, "REC")
	assert.Contains(t, status, "objects 3")

	s.rw.EnterPlayback()
	v.Draw()
	status = rowText(screen, 30-hudRows+1, 100)
	assert.Contains(t, status, "PLAY")

	s.rw.SetPaused(true)
	v.Muted = func() bool { return true }
	v.Draw()
	status = rowText(screen, 30-hudRows+1, 100)
	assert.Contains(t, status, "PAUSE")
	assert.Contains(t, status, "[muted]")
}

func TestView_ScrubBarTracksCursor(t *testing.T) {
	s := newTestScene(t, 1, 1)
	s.run(25) // half of the 50-sample window
	screen := newSimScreen(t, 52, 20)
	v := NewView(screen, s.world, s.rw, s.host.launcher)

	v.Draw()
	bar := []rune(rowText(screen, 20-hudRows, 52))
	assert.Equal(t, '[', bar[0])
	assert.Equal(t, ']', bar[51])
	assert.Equal(t, '━', bar[1])
	assert.Equal(t, '━', bar[25])
	assert.Equal(t, '·', bar[26])

	s.rw.EnterPlayback()
	require.True(t, s.rw.SeekIndex(10))
	v.Draw()
	bar = []rune(rowText(screen, 20-hudRows, 52))
	assert.Equal(t, '▼', bar[11])
}

func TestView_DrawsBodiesInsideFrame(t *testing.T) {
	s := newTestScene(t, 3, 1)
	screen := newSimScreen(t, 80, 24)
	v := NewView(screen, s.world, s.rw, s.host.launcher)

	v.Draw()

	found := 0
	for y := 1; y < 24-hudRows-1; y++ {
		for _, r := range rowText(screen, y, 80) {
			if strings.ContainsRune("oO0", r) {
				found++
			}
		}
	}
	assert.GreaterOrEqual(t, found, 1)
	assert.LessOrEqual(t, found, 3)
}

func TestView_TinyScreenDoesNotPanic(t *testing.T) {
	s := newTestScene(t, 1, 1)
	screen := newSimScreen(t, 5, 3)
	v := NewView(screen, s.world, s.rw, s.host.launcher)
	assert.NotPanics(t, v.Draw)
}

func TestDrawText_Truncates(t *testing.T) {
	screen := newSimScreen(t, 20, 1)
	end := drawText(screen, 0, 0, 6, "abcdefghij", tcell.StyleDefault)
	assert.Equal(t, 6, end)
	assert.Equal(t, "abcde…", strings.TrimRight(rowText(screen, 0, 20), " "))
}
