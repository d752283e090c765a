package router

// Entry is one step of navigable history. Token carries the id of the
// object, report or conversation the screen was opened for, if any.
type Entry struct {
	Screen ScreenID
	Token  string
}

// History is the navigation capability the router pushes to and pops from.
type History interface {
	Push(e Entry)
	// Back drops the current entry and returns the one below it.
	// It reports false when there is no prior entry.
	Back() (Entry, bool)
	Current() (Entry, bool)
	Len() int
}

// Stack is an in-memory History bounded to limit entries (0 means unbounded).
// When full, the oldest entry is dropped.
type Stack struct {
	entries []Entry
	limit   int
}

func NewStack(limit int) *Stack {
	return &Stack{limit: limit}
}

func (s *Stack) Push(e Entry) {
	s.entries = append(s.entries, e)
	if s.limit > 0 && len(s.entries) > s.limit {
		s.entries = s.entries[len(s.entries)-s.limit:]
	}
}

func (s *Stack) Back() (Entry, bool) {
	if len(s.entries) < 2 {
		s.entries = s.entries[:0]
		return Entry{}, false
	}
	s.entries = s.entries[:len(s.entries)-1]
	return s.entries[len(s.entries)-1], true
}

func (s *Stack) Current() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

func (s *Stack) Len() int {
	return len(s.entries)
}
