package router

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Guard may redirect a navigation, e.g. to Login when no session exists.
type Guard func(to ScreenID) ScreenID

// ChangeFunc observes every screen change after history has been updated.
type ChangeFunc func(from, to Entry)

// Router owns the active screen. Every change goes through Navigate or Back
// so the active screen and the history never disagree.
type Router struct {
	history  History
	current  Entry
	guard    Guard
	onChange []ChangeFunc
}

func New(h History) *Router {
	if h == nil {
		h = NewStack(0)
	}
	return &Router{history: h, current: Entry{Screen: Landing}}
}

func (r *Router) SetGuard(g Guard) {
	r.guard = g
}

// OnChange registers fn to run after each navigation (scroll reset,
// cancellation of the leaving screen's timers).
func (r *Router) OnChange(fn ChangeFunc) {
	r.onChange = append(r.onChange, fn)
}

// Navigate makes id the active screen and records it in history.
// Unknown identifiers go to Landing.
func (r *Router) Navigate(id string, token string) ScreenID {
	to := Resolve(id)
	if r.guard != nil {
		to = Resolve(string(r.guard(to)))
	}
	next := Entry{Screen: to, Token: token}
	r.history.Push(next)
	r.swap(next)
	return to
}

// Back restores the previous entry. Without one the active screen becomes
// Landing and a fresh Landing entry is recorded.
func (r *Router) Back() (ScreenID, bool) {
	prev, ok := r.history.Back()
	if !ok {
		prev = Entry{Screen: Landing}
		r.history.Push(prev)
	}
	r.swap(prev)
	return prev.Screen, ok
}

func (r *Router) Current() ScreenID {
	return r.current.Screen
}

func (r *Router) CurrentEntry() Entry {
	return r.current
}

func (r *Router) History() History {
	return r.history
}

func (r *Router) swap(next Entry) {
	from := r.current
	r.current = next
	for _, fn := range r.onChange {
		fn(from, next)
	}
}

// NavigateMsg asks the app to navigate to a screen.
type NavigateMsg struct {
	To    ScreenID
	Token string
}

// BackMsg asks the app to go back one history entry.
type BackMsg struct{}

func Go(to ScreenID, token string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{To: to, Token: token}
	}
}

func GoBack() tea.Cmd {
	return func() tea.Msg {
		return BackMsg{}
	}
}
