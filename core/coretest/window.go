package coretest

import "github.com/devblok/flowerbox/core"

// Window is a host window of a fixed size
type Window struct {
	Hwnd          uintptr
	Width, Height uint32
}

// NewWindow returns a window with a valid handle
func NewWindow(width, height uint32) *Window {
	return &Window{Hwnd: 0x1000, Width: width, Height: height}
}

// Handle implements interface
func (w *Window) Handle() uintptr { return w.Hwnd }

// ClientSize implements interface
func (w *Window) ClientSize() (uint32, uint32) { return w.Width, w.Height }

// Poll is one scripted result of Peek
type Poll struct {
	Message core.Message
	Pending bool
}

// Empty returns n polls finding no message
func Empty(n int) []Poll {
	return make([]Poll, n)
}

// Other returns n polls each finding a non-quit message
func Other(n int) []Poll {
	polls := make([]Poll, n)
	for idx := range polls {
		polls[idx] = Poll{Message: core.Message{Kind: core.OtherMessage}, Pending: true}
	}
	return polls
}

// Quit returns a poll finding the quit message
func Quit() []Poll {
	return []Poll{{Message: core.Message{Kind: core.QuitMessage}, Pending: true}}
}

// Script builds a message source from poll sequences
func Script(seqs ...[]Poll) *Source {
	s := &Source{}
	for _, seq := range seqs {
		s.Polls = append(s.Polls, seq...)
	}
	return s
}

// Source replays scripted polls. Once the script runs out it reports quit
// and sets Overrun, so a broken loop can't spin forever.
type Source struct {
	Polls      []Poll
	Peeked     int
	Dispatched []core.Message
	Overrun    bool
}

// Peek implements interface
func (s *Source) Peek() (core.Message, bool) {
	if s.Peeked >= len(s.Polls) {
		s.Overrun = true
		return core.Message{Kind: core.QuitMessage}, true
	}
	p := s.Polls[s.Peeked]
	s.Peeked++
	return p.Message, p.Pending
}

// Dispatch implements interface
func (s *Source) Dispatch(msg core.Message) {
	s.Dispatched = append(s.Dispatched, msg)
}

var (
	_ core.Window        = (*Window)(nil)
	_ core.MessageSource = (*Source)(nil)
)
