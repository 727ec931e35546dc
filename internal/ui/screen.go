// Package ui draws the realm map, side panels and message log with tcell.
package ui

import "github.com/gdamore/tcell/v2"

// styleBase is the realm's backdrop, white on black. Every style in the
// renderer's palette is derived from it.
var styleBase = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)

// Screen is the terminal Surface the game renders onto.
type Screen struct {
	screen tcell.Screen
}

// NewScreen takes over the terminal, paints the backdrop and hides the
// cursor. Close must be called to hand the terminal back.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(styleBase)
	s.HideCursor()
	s.Clear()
	return &Screen{screen: s}, nil
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.screen.Fini()
}

// PollEvent blocks until the next key or resize event.
func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

func (s *Screen) Clear() {
	s.screen.Clear()
}

func (s *Screen) Show() {
	s.screen.Show()
}

// SetContent places one glyph; the game never draws combining runes.
func (s *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	s.screen.SetContent(x, y, r, nil, style)
}

func (s *Screen) Size() (width, height int) {
	return s.screen.Size()
}

// Sync repaints every cell, used after the terminal is resized.
func (s *Screen) Sync() {
	s.screen.Sync()
}
