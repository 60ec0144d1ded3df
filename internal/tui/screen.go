package tui

import tea "github.com/charmbracelet/bubbletea"

// Screen is one page of the app. Screens receive every message the App does
// not handle itself.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// closer is implemented by screens that own background work.
type closer interface {
	Close()
}

type ScreenStack struct {
	items []Screen
}

func (s *ScreenStack) Push(screen Screen) {
	if screen == nil {
		return
	}
	s.items = append(s.items, screen)
}

func (s *ScreenStack) Pop() Screen {
	if len(s.items) == 0 {
		return nil
	}
	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return last
}

// Replace swaps the top screen, returning the old one.
func (s *ScreenStack) Replace(screen Screen) Screen {
	old := s.Pop()
	s.Push(screen)
	return old
}

func (s ScreenStack) Top() Screen {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

func (s ScreenStack) Len() int {
	return len(s.items)
}

// closeScreen releases what a screen owns once it leaves the stack.
func closeScreen(s Screen) {
	if c, ok := s.(closer); ok {
		c.Close()
	}
}
