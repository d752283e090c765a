package form

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leeozaka/achados/internal/models"
	"github.com/leeozaka/achados/internal/router"
	"github.com/leeozaka/achados/internal/toast"
)

const (
	DefaultRedirectDelay  = 2 * time.Second
	DefaultInvalidMessage = "Preencha todos os campos obrigatórios."
	DefaultRetryMessage   = "Não foi possível enviar agora. Tente novamente."
	ImagesPendingMessage  = "Aguarde o carregamento das fotos."
)

// Receipt is what a successful submission returns.
type Receipt struct {
	Protocol models.Protocol
	// Message overrides Spec.Success for the confirmation toast.
	Message string
	// Destination and Token override Spec.Destination for the redirect.
	Destination router.ScreenID
	Token       string
	Value       any
}

// SubmitFunc performs the submission, typically a backend call.
type SubmitFunc func(ctx context.Context, snap Snapshot) (Receipt, error)

// Spec declares one form: its fields, its required-field rules and where to
// go after a successful submit.
type Spec struct {
	ID             string
	Title          string
	Fields         []Field
	Rules          []Rule
	MaxImages      int
	Destination    router.ScreenID
	RedirectDelay  time.Duration
	InvalidMessage string
	Success        func(Receipt) string
	// Failure picks the toast for a failed submission. An empty result
	// falls back to DefaultRetryMessage.
	Failure func(error) string
	Submit  SubmitFunc
}

// SubmittedMsg is emitted once per successful submission so the app can
// pick up receipt values such as a new session.
type SubmittedMsg struct {
	FormID  string
	Receipt Receipt
}

type imagesDecodedMsg struct {
	token  uint64
	images []models.Image
	err    error
}

type submitResultMsg struct {
	token   uint64
	receipt Receipt
	err     error
}

type redirectMsg struct {
	token uint64
}

var lastToken atomic.Uint64

func nextToken() uint64 {
	return lastToken.Add(1)
}

type Option func(*Engine)

func WithDecoder(d Decoder) Option {
	return func(e *Engine) { e.decoder = d }
}

func WithTick(fn toast.TickFunc) Option {
	return func(e *Engine) { e.tick = fn }
}

func WithContext(ctx context.Context) Option {
	return func(e *Engine) { e.ctx = ctx }
}

// Engine runs one Spec. It is driven from a single Bubble Tea event loop:
// its methods return commands and its Update consumes their results.
type Engine struct {
	spec    Spec
	state   *State
	initial Prefill
	errs    Errors
	lastErr error

	toasts  *toast.Manager
	decoder Decoder
	tick    toast.TickFunc
	ctx     context.Context

	submitting   uint64
	cancelSubmit context.CancelFunc
	redirect     uint64
	redirectTo   router.Entry
	reserved     map[uint64]int
}

func New(spec Spec, toasts *toast.Manager, opts ...Option) *Engine {
	if spec.RedirectDelay <= 0 {
		spec.RedirectDelay = DefaultRedirectDelay
	}
	if spec.InvalidMessage == "" {
		spec.InvalidMessage = DefaultInvalidMessage
	}
	if toasts == nil {
		toasts = toast.NewManager(toast.DefaultTTL)
	}
	e := &Engine{
		spec:     spec,
		state:    NewState(spec.Fields, spec.MaxImages),
		errs:     Errors{},
		toasts:   toasts,
		decoder:  FileDecoder{},
		tick:     tea.Tick,
		ctx:      context.Background(),
		reserved: make(map[uint64]int),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Spec() Spec             { return e.spec }
func (e *Engine) State() *State          { return e.state }
func (e *Engine) Errors() Errors         { return e.errs }
func (e *Engine) Err() error             { return e.lastErr }
func (e *Engine) Submitting() bool       { return e.submitting != 0 }
func (e *Engine) DecodingImages() bool   { return len(e.reserved) > 0 }
func (e *Engine) RedirectPending() bool  { return e.redirect != 0 }
func (e *Engine) Toasts() *toast.Manager { return e.toasts }

// Prefill replaces the state with p and remembers it as the reset point.
func (e *Engine) Prefill(p Prefill) {
	e.initial = p
	e.reset()
}

func (e *Engine) reset() {
	e.state = NewState(e.spec.Fields, e.spec.MaxImages)
	e.state.apply(e.initial)
	e.reserved = make(map[uint64]int)
}

func (e *Engine) UpdateField(name, value string) error {
	return e.state.UpdateField(name, value)
}

func (e *Engine) ToggleSetMember(name, value string) error {
	return e.state.ToggleSetMember(name, value)
}

func (e *Engine) SetFlag(name string, on bool) error {
	return e.state.SetFlag(name, on)
}

func (e *Engine) RemoveImage(i int) error {
	return e.state.images.Remove(i)
}

// Validate recomputes the error map from the current state.
func (e *Engine) Validate() Errors {
	e.errs = Validate(e.spec.Rules, e.state)
	return e.errs
}

func (e *Engine) hasImages() bool {
	for _, f := range e.spec.Fields {
		if f.Kind == Images {
			return true
		}
	}
	return false
}

func (e *Engine) reservedCount() int {
	n := 0
	for _, v := range e.reserved {
		n += v
	}
	return n
}

// AddImages decodes files in the background and appends them in selection
// order. A batch that would exceed capacity is rejected whole with a single
// error toast.
func (e *Engine) AddImages(files []string) tea.Cmd {
	if len(files) == 0 {
		return nil
	}
	if !e.hasImages() {
		e.lastErr = ErrUnknownField
		return nil
	}
	images := e.state.images
	if err := images.Fits(e.reservedCount(), len(files)); err != nil {
		e.lastErr = err
		return e.toasts.Show(toast.Error, fmt.Sprintf("Você pode enviar no máximo %d fotos.", images.Max()))
	}

	token := nextToken()
	e.reserved[token] = len(files)
	dec := e.decoder
	ctx := e.ctx
	batch := append([]string(nil), files...)
	return func() tea.Msg {
		imgs, err := DecodeBatch(ctx, dec, batch)
		return imagesDecodedMsg{token: token, images: imgs, err: err}
	}
}

// Submit validates and, when the form is valid, starts the submission.
// It is a no-op while a previous submission is in flight, and refused with
// an info toast while photos are still decoding.
func (e *Engine) Submit() tea.Cmd {
	if e.submitting != 0 {
		e.lastErr = ErrSubmitInProgress
		return nil
	}
	if len(e.reserved) > 0 {
		e.lastErr = ErrImagesPending
		return e.toasts.Show(toast.Info, ImagesPendingMessage)
	}
	if e.Validate(); len(e.errs) > 0 {
		e.lastErr = &ValidationError{Errors: e.errs}
		return e.toasts.Show(toast.Error, e.spec.InvalidMessage)
	}
	e.lastErr = nil

	token := nextToken()
	ctx, cancel := context.WithCancel(e.ctx)
	e.submitting = token
	e.cancelSubmit = cancel

	submit := e.spec.Submit
	snap := e.state.Snapshot()
	return func() tea.Msg {
		defer cancel()
		if submit == nil {
			return submitResultMsg{token: token}
		}
		r, err := submit(ctx, snap)
		return submitResultMsg{token: token, receipt: r, err: err}
	}
}

// Cancel drops the pending redirect, the in-flight submission and any image
// batches still decoding. Their late results are ignored.
func (e *Engine) Cancel() {
	e.redirect = 0
	e.redirectTo = router.Entry{}
	if e.cancelSubmit != nil {
		e.cancelSubmit()
		e.cancelSubmit = nil
	}
	e.submitting = 0
	e.reserved = make(map[uint64]int)
}

func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case imagesDecodedMsg:
		n, ok := e.reserved[msg.token]
		if !ok {
			return nil
		}
		delete(e.reserved, msg.token)
		if msg.err != nil {
			e.lastErr = msg.err
			return e.toasts.Show(toast.Error, fmt.Sprintf("Não foi possível carregar %d foto(s): %v", n, msg.err))
		}
		if err := e.state.images.Append(msg.images...); err != nil {
			e.lastErr = err
			return e.toasts.Show(toast.Error, fmt.Sprintf("Você pode enviar no máximo %d fotos.", e.state.images.Max()))
		}
		return nil

	case submitResultMsg:
		if msg.token == 0 || msg.token != e.submitting {
			return nil
		}
		e.submitting = 0
		e.cancelSubmit = nil
		if msg.err != nil {
			e.lastErr = &SubmissionError{Err: msg.err}
			text := DefaultRetryMessage
			if e.spec.Failure != nil {
				if t := e.spec.Failure(msg.err); t != "" {
					text = t
				}
			}
			return e.toasts.Show(toast.Error, text)
		}
		return e.succeed(msg.receipt)

	case redirectMsg:
		if msg.token == 0 || msg.token != e.redirect {
			return nil
		}
		to := e.redirectTo
		e.redirect = 0
		e.redirectTo = router.Entry{}
		return router.Go(to.Screen, to.Token)
	}
	return nil
}

func (e *Engine) succeed(r Receipt) tea.Cmd {
	e.errs = Errors{}
	e.reset()

	text := r.Message
	if text == "" && e.spec.Success != nil {
		text = e.spec.Success(r)
	}
	var cmds []tea.Cmd
	if text != "" {
		cmds = append(cmds, e.toasts.Show(toast.Success, text))
	}

	formID := e.spec.ID
	cmds = append(cmds, func() tea.Msg {
		return SubmittedMsg{FormID: formID, Receipt: r}
	})

	dest := r.Destination
	if dest == "" {
		dest = e.spec.Destination
	}
	if dest != "" {
		token := nextToken()
		e.redirect = token
		e.redirectTo = router.Entry{Screen: dest, Token: r.Token}
		cmds = append(cmds, e.tick(e.spec.RedirectDelay, func(time.Time) tea.Msg {
			return redirectMsg{token: token}
		}))
	}
	return tea.Batch(cmds...)
}
