// Package ui is the Bubble Tea program: one app model that owns the router
// and the toasts, and one model per screen.
package ui

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leeozaka/achados/internal/backend"
	"github.com/leeozaka/achados/internal/chat"
	"github.com/leeozaka/achados/internal/config"
	"github.com/leeozaka/achados/internal/form"
	"github.com/leeozaka/achados/internal/models"
	"github.com/leeozaka/achados/internal/observability"
	"github.com/leeozaka/achados/internal/router"
	"github.com/leeozaka/achados/internal/toast"
)

// Relay fans sent messages out to other clients. Optional.
type Relay interface {
	Publish(ctx context.Context, m models.Message) error
	Subscribe(ctx context.Context) <-chan models.Message
}

type Options struct {
	Services backend.Services
	Config   *config.Config
	Relay    Relay
	// ExportDir receives reports exported from the admin screens.
	ExportDir string
	// Tick replaces tea.Tick for every timer of the program.
	Tick    toast.TickFunc
	Decoder form.Decoder
	Now     func() time.Time
}

// env is what every screen shares.
type env struct {
	ctx       context.Context
	store     backend.Store
	auth      backend.Authenticator
	toasts    *toast.Manager
	cfg       *config.Config
	tick      toast.TickFunc
	decoder   form.Decoder
	now       func() time.Time
	exportDir string
	session   func() *models.Session
}

func (e *env) userID() string {
	if s := e.session(); s != nil {
		return s.UserID
	}
	return ""
}

type screen interface {
	// Enter starts the screen for the given history token.
	Enter(token string) tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width int) string
	Help() string
	// Leave cancels pending timers and background calls.
	Leave()
}

// loadedMsg carries the result of a screen's background backend call.
type loadedMsg struct {
	key   string
	token uint64
	value any
	err   error
}

var lastLoad atomic.Uint64

// base gives a screen a cancellable context and stale-result filtering
// for its backend calls.
type base struct {
	env     *env
	ctx     context.Context
	cancel  context.CancelFunc
	pending map[string]uint64
}

func (b *base) start(e *env) {
	b.env = e
	b.ctx, b.cancel = context.WithCancel(e.ctx)
	b.pending = make(map[string]uint64)
}

func (b *base) Leave() {
	if b.cancel != nil {
		b.cancel()
	}
	b.pending = make(map[string]uint64)
}

// load runs fn in the background. Only the latest load per key is
// delivered; earlier ones and loads of a left screen are dropped.
func (b *base) load(key string, fn func(ctx context.Context) (any, error)) tea.Cmd {
	token := lastLoad.Add(1)
	b.pending[key] = token
	ctx := observability.WithRequestID(b.ctx, fmt.Sprintf("%s-%d", key, token))
	return func() tea.Msg {
		v, err := fn(ctx)
		return loadedMsg{key: key, token: token, value: v, err: err}
	}
}

// loaded reports whether msg is the current result of one of b's loads.
func (b *base) loaded(msg tea.Msg) (loadedMsg, bool) {
	m, ok := msg.(loadedMsg)
	if !ok || b.pending[m.key] != m.token {
		return m, false
	}
	delete(b.pending, m.key)
	return m, true
}

func (b *base) failed(err error, message string) tea.Cmd {
	observability.LoggerFromContext(b.ctx).Error("screen call failed", "error", err)
	return b.env.toasts.Show(toast.Error, message)
}

type logoutMsg struct{}

func logout() tea.Cmd {
	return func() tea.Msg { return logoutMsg{} }
}

type relayMsg struct {
	message models.Message
	ok      bool
}

var globalKeys = struct {
	Quit     key.Binding
	Back     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}{
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "sair")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "voltar")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "rolar")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "rolar")),
}

type Model struct {
	env      *env
	router   *router.Router
	toasts   *toast.Manager
	session  *models.Session
	active   screen
	start    router.ScreenID
	relay    Relay
	relayCh  <-chan models.Message
	viewport viewport.Model
	width    int
	height   int
	quitting bool
}

func New(ctx context.Context, opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	tick := opts.Tick
	if tick == nil {
		tick = tea.Tick
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	decoder := opts.Decoder
	if decoder == nil {
		decoder = form.FileDecoder{}
	}

	toasts := toast.NewManager(cfg.Timing.ToastTTL)
	toasts.SetTick(tick)
	toasts.Observe(func(t toast.Toast) {
		observability.Logger().Debug("toast shown", "kind", t.Kind.String(), "message", t.Message)
	})

	m := &Model{
		router:   router.New(router.NewStack(64)),
		toasts:   toasts,
		start:    router.Resolve(cfg.StartScreen),
		relay:    opts.Relay,
		viewport: viewport.Model{Width: 80, Height: 20},
		width:    80,
		height:   24,
	}
	m.env = &env{
		ctx:       ctx,
		store:     opts.Services.Store,
		auth:      opts.Services.Auth,
		toasts:    toasts,
		cfg:       cfg,
		tick:      tick,
		decoder:   decoder,
		now:       now,
		exportDir: opts.ExportDir,
		session:   func() *models.Session { return m.session },
	}
	m.router.SetGuard(m.guard)
	m.router.OnChange(func(from, to router.Entry) {
		if m.active != nil {
			m.active.Leave()
		}
		m.viewport.GotoTop()
		observability.Logger().Debug("navigate", "from", from.Screen.String(), "to", to.Screen.String(), "token", to.Token)
	})
	return m
}

// StartAt overrides the configured start screen, e.g. from a --screen flag.
func (m *Model) StartAt(id string) {
	m.start = router.Resolve(id)
}

// guard sends anonymous users to login and keeps non-admins out of admin screens.
func (m *Model) guard(to router.ScreenID) router.ScreenID {
	valid := m.session.Valid(m.env.now())
	switch to.Tier() {
	case router.TierUser:
		if !valid {
			return router.Login
		}
	case router.TierAdmin:
		if !valid || !m.session.Admin {
			return router.Login
		}
	}
	return to
}

func (m *Model) Session() *models.Session {
	return m.session
}

func (m *Model) Current() router.ScreenID {
	return m.router.Current()
}

func (m *Model) Toasts() *toast.Manager {
	return m.toasts
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.navigate(m.start, "")}
	if m.relay != nil {
		m.relayCh = m.relay.Subscribe(m.env.ctx)
		cmds = append(cmds, m.listenRelay())
	}
	return tea.Batch(cmds...)
}

func (m *Model) listenRelay() tea.Cmd {
	ch := m.relayCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		return relayMsg{message: msg, ok: ok}
	}
}

func (m *Model) navigate(to router.ScreenID, token string) tea.Cmd {
	id := m.router.Navigate(string(to), token)
	return m.enter(id, m.router.CurrentEntry().Token)
}

func (m *Model) back() tea.Cmd {
	id, _ := m.router.Back()
	if guarded := m.guard(id); guarded != id {
		return m.navigate(guarded, "")
	}
	return m.enter(id, m.router.CurrentEntry().Token)
}

func (m *Model) enter(id router.ScreenID, token string) tea.Cmd {
	m.active = m.build(id)
	return m.active.Enter(token)
}

func (m *Model) build(id router.ScreenID) screen {
	switch id {
	case router.Login:
		return newFormScreen(m.env, loginForm)
	case router.Signup:
		return newFormScreen(m.env, signupForm)
	case router.ForgotPassword:
		return newFormScreen(m.env, forgotPasswordForm)
	case router.RegisterFound:
		return newFormScreen(m.env, registerFoundForm)
	case router.RegisterLost:
		return newFormScreen(m.env, registerLostForm)
	case router.EditObject:
		return newFormScreen(m.env, editObjectForm)
	case router.Profile:
		return newFormScreen(m.env, profileForm)
	case router.Dashboard:
		return newDashboard(m.env)
	case router.Search:
		return newSearch(m.env)
	case router.ObjectDetail:
		return newObjectDetail(m.env)
	case router.MyObjects:
		return newMyObjects(m.env)
	case router.Messages:
		return newMessages(m.env)
	case router.Help:
		return newHelp(m.env)
	case router.Onboarding:
		return newOnboarding(m.env)
	case router.AdminDashboard:
		return newAdminDashboard(m.env)
	case router.AdminObjects:
		return newAdminObjects(m.env)
	case router.AdminReportDetail:
		return newAdminReportDetail(m.env)
	case router.AdminReports:
		return newAdminReports(m.env)
	case router.AdminUsers:
		return newAdminUsers(m.env)
	}
	return newLanding(m.env)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.syncViewport()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-8, 5)
		return nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, globalKeys.Quit):
			m.quitting = true
			if m.active != nil {
				m.active.Leave()
			}
			return tea.Quit
		case key.Matches(msg, globalKeys.Back):
			return m.back()
		case key.Matches(msg, globalKeys.PageUp, globalKeys.PageDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return cmd
		}

	case router.NavigateMsg:
		return m.navigate(msg.To, msg.Token)

	case router.BackMsg:
		return m.back()

	case toast.ExpiredMsg:
		m.toasts.Update(msg)
		return nil

	case form.SubmittedMsg:
		if s, ok := msg.Receipt.Value.(models.Session); ok {
			m.session = &s
			observability.Logger().Info("session started", "user_id", s.UserID, "admin", s.Admin)
		}

	case logoutMsg:
		if m.session != nil {
			observability.Logger().Info("session ended", "user_id", m.session.UserID)
		}
		m.session = nil
		m.toasts.Clear()
		return m.navigate(router.Landing, "")

	case relayMsg:
		if !msg.ok {
			m.relayCh = nil
			return nil
		}
		var cmd tea.Cmd
		if m.active != nil {
			cmd = m.active.Update(chat.ReceivedMsg{Message: msg.message})
		}
		return tea.Batch(cmd, m.listenRelay())

	case chat.SentMsg:
		var cmds []tea.Cmd
		if m.active != nil {
			cmds = append(cmds, m.active.Update(msg))
		}
		if m.relay != nil {
			relay, ctx, sent := m.relay, m.env.ctx, msg.Message
			cmds = append(cmds, func() tea.Msg {
				if err := relay.Publish(ctx, sent); err != nil {
					observability.Logger().Warn("relay publish failed", "conversation_id", sent.ConversationID, "error", err)
				}
				return nil
			})
		}
		return tea.Batch(cmds...)
	}

	if m.active == nil {
		return nil
	}
	return m.active.Update(msg)
}

func (m *Model) syncViewport() {
	if m.active == nil {
		return
	}
	m.viewport.SetContent(m.active.View(m.width))
}

func (m *Model) View() string {
	if m.quitting {
		return "Até logo!\n"
	}
	var s strings.Builder

	title := m.router.Current().Title()
	if m.session != nil {
		title += "  ·  " + m.session.Name
	}
	s.WriteString(lipgloss.Place(m.width, 2, lipgloss.Center, lipgloss.Center, titleStyle.Render(title)))
	s.WriteString("\n")

	for _, t := range m.toasts.Active() {
		s.WriteString(lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, toastStyle(t.Kind).Render(t.Message)))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	s.WriteString(m.viewport.View())
	s.WriteString("\n\n")

	help := "Navegação: " +
		highlightStyle.Render("Esc") + " voltar, " +
		highlightStyle.Render("PgUp/PgDn") + " rolar, " +
		highlightStyle.Render("Ctrl+C") + " sair"
	if m.active != nil && m.active.Help() != "" {
		help = m.active.Help() + "\n" + help
	}
	s.WriteString(lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, dimmedStyle.Render(help)))
	return s.String()
}

// Run starts the program and blocks until it quits. A panic inside the
// program is logged and returned as an error.
func Run(ctx context.Context, opts Options, startScreen string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			observability.Logger().Error("ui panic", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			err = fmt.Errorf("ui panic: %v", r)
		}
	}()

	m := New(ctx, opts)
	if startScreen != "" {
		m.StartAt(startScreen)
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
