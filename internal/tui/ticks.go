package tui

import (
	"bricktrack/internal/timer"

	tea "github.com/charmbracelet/bubbletea"
)

// TickSource 将计时器跳动转发为 Tea 消息
// TickSource forwards timer ticks into the program. Notify never blocks; a
// tick arriving while another is still queued is dropped.
type TickSource struct {
	ch chan timer.Snapshot
}

func NewTickSource() *TickSource {
	return &TickSource{ch: make(chan timer.Snapshot, 1)}
}

// Notify is passed to the timer as its OnTick observer.
func (s *TickSource) Notify(snap timer.Snapshot) {
	select {
	case s.ch <- snap:
	default:
	}
}

// Close ends the stream. Call it only after the timer is closed.
func (s *TickSource) Close() { close(s.ch) }

func (s *TickSource) wait() tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-s.ch
		if !ok {
			return nil
		}
		return TickMsg(snap)
	}
}
