package form

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeozaka/achados/internal/models"
	"github.com/leeozaka/achados/internal/router"
	"github.com/leeozaka/achados/internal/toast"
)

// immediate hands the scheduled message back right away; tests decide
// whether to deliver it.
func immediate(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg { return fn(time.Time{}) }
}

// drain runs cmd and everything it batches, returning the leaf messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func find[T any](msgs []tea.Msg) []T {
	var out []T
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// fakeDecoder returns a deterministic image per path after the configured delay.
func fakeDecoder(delays map[string]time.Duration) Decoder {
	return DecoderFunc(func(ctx context.Context, path string) (models.Image, error) {
		if d := delays[path]; d > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return models.Image{}, ctx.Err()
			}
		}
		if path == "broken.png" {
			return models.Image{}, errors.New("corrupt file")
		}
		return models.Image{Name: path, MIME: "image/png", DataURI: "data:image/png;base64," + path}, nil
	})
}

type harness struct {
	engine *Engine
	toasts *toast.Manager
	shown  []toast.Toast
}

func (h *harness) count(kind toast.Kind) int {
	n := 0
	for _, t := range h.shown {
		if t.Kind == kind {
			n++
		}
	}
	return n
}

// run feeds every message produced by cmd back into the engine until no
// more commands are returned, and reports every message seen.
func (h *harness) run(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := drain(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		out = append(out, msg)
		queue = append(queue, drain(h.engine.Update(msg))...)
	}
	return out
}

func foundSpec(submit SubmitFunc) Spec {
	return Spec{
		ID:    "register-found",
		Title: "Registrar objeto encontrado",
		Fields: []Field{
			{Name: "image", Label: "Foto do objeto", Kind: Images, Required: true},
			{Name: "category", Label: "Categoria", Kind: Choice, Options: models.Categories, Required: true},
			{Name: "name", Label: "Nome do objeto", Kind: Text, Required: true},
			{Name: "location", Label: "Local", Kind: Choice, Options: models.Locations, Required: true},
			{Name: "date", Label: "Data", Kind: Text, Required: true},
			{Name: "description", Label: "Descrição", Kind: Text},
			{Name: "currentLocation", Label: "Onde está agora", Kind: Choice, Options: models.CurrentLocations, Required: true},
			{Name: "places", Label: "Locais", Kind: MultiChoice, Options: models.VisitedPlaces},
			{Name: "allowMessages", Label: "Permitir mensagens", Kind: Toggle},
		},
		Rules: []Rule{
			RequiredImage("image", "Foto do objeto é obrigatória"),
			Required("category", "Categoria é obrigatória"),
			Required("name", "Nome do objeto é obrigatório"),
			Required("location", "Local é obrigatório"),
			Required("date", "Data é obrigatória"),
			Required("currentLocation", "Informe onde o objeto está agora"),
		},
		Destination: router.MyObjects,
		Success: func(r Receipt) string {
			return "Objeto encontrado registrado com sucesso. Nº de protocolo: " + string(r.Protocol)
		},
		Submit: submit,
	}
}

func newHarness(t *testing.T, spec Spec, delays map[string]time.Duration) *harness {
	t.Helper()
	h := &harness{toasts: toast.NewManager(time.Second)}
	h.toasts.SetTick(immediate)
	h.toasts.Observe(func(t toast.Toast) { h.shown = append(h.shown, t) })
	h.engine = New(spec, h.toasts, WithDecoder(fakeDecoder(delays)), WithTick(immediate))
	return h
}

func fillFound(t *testing.T, h *harness) {
	t.Helper()
	require.NoError(t, h.engine.UpdateField("category", "Eletrônicos"))
	require.NoError(t, h.engine.UpdateField("name", "Fone azul"))
	require.NoError(t, h.engine.UpdateField("location", "Cantina"))
	require.NoError(t, h.engine.UpdateField("date", "2025-11-01"))
	require.NoError(t, h.engine.UpdateField("currentLocation", "Comigo"))
	h.run(h.engine.AddImages([]string{"fone.png"}))
	require.Equal(t, 1, h.engine.State().Images().Len())
}

func protocolSubmit(calls *int) SubmitFunc {
	return func(ctx context.Context, snap Snapshot) (Receipt, error) {
		*calls++
		return Receipt{Protocol: "#12346"}, nil
	}
}

func TestSubmitValidFoundObject(t *testing.T) {
	calls := 0
	h := newHarness(t, foundSpec(protocolSubmit(&calls)), nil)
	fillFound(t, h)

	out := h.run(h.engine.Submit())

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, h.count(toast.Success))
	cur, ok := h.toasts.Current(toast.Success)
	require.True(t, ok)
	assert.Contains(t, cur.Message, "#12346")

	navs := find[router.NavigateMsg](out)
	require.Len(t, navs, 1)
	assert.Equal(t, router.MyObjects, navs[0].To)

	submitted := find[SubmittedMsg](out)
	require.Len(t, submitted, 1)
	assert.Equal(t, "register-found", submitted[0].FormID)
	assert.Equal(t, models.Protocol("#12346"), submitted[0].Receipt.Protocol)

	// The form is cleared after a successful submission.
	assert.Empty(t, h.engine.State().Value("name"))
	assert.Equal(t, 0, h.engine.State().Images().Len())
	assert.False(t, h.engine.RedirectPending())
}

func TestSubmitMissingNameStaysPut(t *testing.T) {
	calls := 0
	h := newHarness(t, foundSpec(protocolSubmit(&calls)), nil)
	fillFound(t, h)
	require.NoError(t, h.engine.UpdateField("name", ""))

	out := h.run(h.engine.Submit())

	assert.Equal(t, 0, calls)
	assert.True(t, h.engine.Errors().Has("name"))
	assert.Equal(t, []string{"name"}, h.engine.Errors().Fields())
	assert.Equal(t, 0, h.count(toast.Success))
	assert.Equal(t, 1, h.count(toast.Error))
	assert.Empty(t, find[router.NavigateMsg](out))

	var verr *ValidationError
	require.ErrorAs(t, h.engine.Err(), &verr)
	assert.Equal(t, "Nome do objeto é obrigatório", verr.Errors["name"])

	// Nothing was cleared.
	assert.Equal(t, "Cantina", h.engine.State().Value("location"))
	assert.Equal(t, 1, h.engine.State().Images().Len())
}

func TestSubmitWithoutImageFailsImageRule(t *testing.T) {
	h := newHarness(t, foundSpec(nil), nil)
	require.NoError(t, h.engine.UpdateField("name", "Fone azul"))

	h.run(h.engine.Submit())

	errs := h.engine.Errors()
	assert.True(t, errs.Has("image"))
	assert.True(t, errs.Has("category"))
	assert.False(t, errs.Has("name"))
	assert.False(t, errs.Has("description"))
}

func TestValidateIsPure(t *testing.T) {
	h := newHarness(t, foundSpec(nil), nil)
	require.NoError(t, h.engine.UpdateField("name", "Mochila"))
	before := h.engine.State().Snapshot()

	first := Validate(h.engine.Spec().Rules, h.engine.State())
	second := Validate(h.engine.Spec().Rules, h.engine.State())

	assert.Equal(t, first, second)
	assert.Equal(t, before, h.engine.State().Snapshot())
}

func TestUpdateFieldDoesNotRevalidate(t *testing.T) {
	h := newHarness(t, foundSpec(nil), nil)
	h.run(h.engine.Submit())
	require.True(t, h.engine.Errors().Has("name"))

	require.NoError(t, h.engine.UpdateField("name", "Caderno"))
	assert.True(t, h.engine.Errors().Has("name"))

	h.engine.Validate()
	assert.False(t, h.engine.Errors().Has("name"))
}

func TestSubmitCanceledByManualNavigation(t *testing.T) {
	calls := 0
	h := newHarness(t, foundSpec(protocolSubmit(&calls)), nil)
	fillFound(t, h)

	result := drain(h.engine.Submit())
	require.Len(t, result, 1)

	// Deliver the result but hold back the redirect timer.
	follow := drain(h.engine.Update(result[0]))
	redirects := find[redirectMsg](follow)
	require.Len(t, redirects, 1)
	require.True(t, h.engine.RedirectPending())

	h.engine.Cancel()
	assert.False(t, h.engine.RedirectPending())
	assert.Nil(t, h.engine.Update(redirects[0]))
}

func TestRedirectFiresOnce(t *testing.T) {
	calls := 0
	h := newHarness(t, foundSpec(protocolSubmit(&calls)), nil)
	fillFound(t, h)

	result := drain(h.engine.Submit())
	follow := drain(h.engine.Update(result[0]))
	redirect := find[redirectMsg](follow)[0]

	first := drain(h.engine.Update(redirect))
	assert.Len(t, find[router.NavigateMsg](first), 1)
	assert.Nil(t, h.engine.Update(redirect))
}

func TestSubmissionErrorKeepsForm(t *testing.T) {
	attempts := 0
	submit := func(ctx context.Context, snap Snapshot) (Receipt, error) {
		attempts++
		if attempts == 1 {
			return Receipt{}, errors.New("server unavailable")
		}
		return Receipt{Protocol: "#1"}, nil
	}
	h := newHarness(t, foundSpec(submit), nil)
	fillFound(t, h)

	out := h.run(h.engine.Submit())

	var serr *SubmissionError
	require.ErrorAs(t, h.engine.Err(), &serr)
	assert.EqualError(t, serr.Unwrap(), "server unavailable")
	assert.Empty(t, find[router.NavigateMsg](out))
	assert.Equal(t, 0, h.count(toast.Success))
	cur, ok := h.toasts.Current(toast.Error)
	require.True(t, ok)
	assert.Equal(t, DefaultRetryMessage, cur.Message)
	assert.Equal(t, "Fone azul", h.engine.State().Value("name"))
	assert.Equal(t, 1, h.engine.State().Images().Len())
	assert.False(t, h.engine.Submitting())

	out = h.run(h.engine.Submit())
	assert.Len(t, find[router.NavigateMsg](out), 1)
	assert.Equal(t, 2, attempts)
}

func TestSubmissionFailureMessage(t *testing.T) {
	denied := errors.New("denied")
	spec := foundSpec(func(ctx context.Context, snap Snapshot) (Receipt, error) {
		return Receipt{}, denied
	})
	spec.Failure = func(err error) string {
		if errors.Is(err, denied) {
			return "Acesso negado."
		}
		return ""
	}
	h := newHarness(t, spec, nil)
	fillFound(t, h)

	h.run(h.engine.Submit())

	cur, ok := h.toasts.Current(toast.Error)
	require.True(t, ok)
	assert.Equal(t, "Acesso negado.", cur.Message)
}

func TestSubmitIgnoredWhileInFlight(t *testing.T) {
	calls := 0
	h := newHarness(t, foundSpec(protocolSubmit(&calls)), nil)
	fillFound(t, h)

	first := h.engine.Submit()
	require.NotNil(t, first)
	assert.Nil(t, h.engine.Submit())
	assert.ErrorIs(t, h.engine.Err(), ErrSubmitInProgress)

	h.run(first)
	assert.Equal(t, 1, calls)
}

func TestCancelDropsInFlightSubmission(t *testing.T) {
	started := make(chan struct{})
	submit := func(ctx context.Context, snap Snapshot) (Receipt, error) {
		close(started)
		<-ctx.Done()
		return Receipt{}, ctx.Err()
	}
	h := newHarness(t, foundSpec(submit), nil)
	fillFound(t, h)

	cmd := h.engine.Submit()
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	<-started

	h.engine.Cancel()
	msg := <-done
	assert.Nil(t, h.engine.Update(msg))
	assert.Equal(t, 0, h.count(toast.Error))
	assert.Equal(t, "Fone azul", h.engine.State().Value("name"))
}

func TestAddImagesRejectsWholeBatch(t *testing.T) {
	h := newHarness(t, foundSpec(nil), nil)

	eight := make([]string, 8)
	for i := range eight {
		eight[i] = fmt.Sprintf("img%d.png", i)
	}
	h.run(h.engine.AddImages(eight))
	require.Equal(t, 8, h.engine.State().Images().Len())

	five := []string{"a.png", "b.png", "c.png", "d.png", "e.png"}
	out := h.run(h.engine.AddImages(five))

	assert.Empty(t, find[imagesDecodedMsg](out))
	assert.Equal(t, 8, h.engine.State().Images().Len())
	assert.Equal(t, 1, h.count(toast.Error))
	cur, _ := h.toasts.Current(toast.Error)
	assert.Equal(t, "Você pode enviar no máximo 10 fotos.", cur.Message)

	var cerr *CapacityError
	require.ErrorAs(t, h.engine.Err(), &cerr)
	assert.Equal(t, CapacityError{Max: 10, Current: 8, Requested: 5}, *cerr)

	// Exactly filling the collection is fine.
	h.run(h.engine.AddImages([]string{"x.png", "y.png"}))
	assert.Equal(t, 10, h.engine.State().Images().Len())
}

func TestSubmitWaitsForImagesStillDecoding(t *testing.T) {
	calls := 0
	h := newHarness(t, foundSpec(protocolSubmit(&calls)), nil)
	fillFound(t, h)

	pending := h.engine.AddImages([]string{"verso.png"})
	require.NotNil(t, pending)
	assert.True(t, h.engine.DecodingImages())

	h.run(h.engine.Submit())
	assert.ErrorIs(t, h.engine.Err(), ErrImagesPending)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, h.count(toast.Info))
	assert.Equal(t, "Fone azul", h.engine.State().Value("name"))

	h.run(pending)
	assert.False(t, h.engine.DecodingImages())
	require.Equal(t, 2, h.engine.State().Images().Len())

	h.run(h.engine.Submit())
	assert.Equal(t, 1, calls)
}

func TestAddImagesCountsBatchesStillDecoding(t *testing.T) {
	h := newHarness(t, foundSpec(nil), nil)

	pending := h.engine.AddImages([]string{"1", "2", "3", "4", "5", "6"})
	require.NotNil(t, pending)

	h.run(h.engine.AddImages([]string{"7", "8", "9", "10", "11"}))
	assert.Equal(t, 1, h.count(toast.Error))

	h.run(pending)
	assert.Equal(t, 6, h.engine.State().Images().Len())
}

func TestAddImagesPreservesSelectionOrder(t *testing.T) {
	delays := map[string]time.Duration{
		"A.png": 40 * time.Millisecond,
		"B.png": 20 * time.Millisecond,
		"C.png": 0,
	}
	h := newHarness(t, foundSpec(nil), delays)

	h.run(h.engine.AddImages([]string{"A.png", "B.png", "C.png"}))

	items := h.engine.State().Images().Items()
	require.Len(t, items, 3)
	assert.Equal(t, "A.png", items[0].Name)
	assert.Equal(t, "B.png", items[1].Name)
	assert.Equal(t, "C.png", items[2].Name)
}

func TestAddImagesFailureRejectsBatch(t *testing.T) {
	h := newHarness(t, foundSpec(nil), nil)
	h.run(h.engine.AddImages([]string{"ok.png", "broken.png"}))

	assert.Equal(t, 0, h.engine.State().Images().Len())
	assert.Equal(t, 1, h.count(toast.Error))

	// The reservation was released.
	h.run(h.engine.AddImages(make10()))
	assert.Equal(t, 10, h.engine.State().Images().Len())
}

func make10() []string {
	out := make([]string, 10)
	for i := range out {
		out[i] = fmt.Sprintf("p%d.png", i)
	}
	return out
}

func TestLateImageBatchAfterCancelIsIgnored(t *testing.T) {
	h := newHarness(t, foundSpec(nil), nil)
	cmd := h.engine.AddImages([]string{"late.png"})
	h.engine.Cancel()

	h.run(cmd)
	assert.Equal(t, 0, h.engine.State().Images().Len())
}

func TestRemoveImage(t *testing.T) {
	h := newHarness(t, foundSpec(nil), nil)
	h.run(h.engine.AddImages([]string{"a", "b", "c", "d"}))

	require.NoError(t, h.engine.RemoveImage(1))
	items := h.engine.State().Images().Items()
	require.Len(t, items, 3)
	assert.Equal(t, []string{"a", "c", "d"}, []string{items[0].Name, items[1].Name, items[2].Name})

	assert.ErrorIs(t, h.engine.RemoveImage(3), ErrIndexOutOfRange)
	assert.ErrorIs(t, h.engine.RemoveImage(-1), ErrIndexOutOfRange)
	assert.Equal(t, 3, h.engine.State().Images().Len())
}

func TestAddImagesWithoutImageField(t *testing.T) {
	spec := Spec{ID: "login", Fields: []Field{{Name: "email", Kind: Text}}}
	e := New(spec, nil)
	assert.Nil(t, e.AddImages([]string{"x.png"}))
	assert.ErrorIs(t, e.Err(), ErrUnknownField)
}

func TestFieldIdentitiesAreFixed(t *testing.T) {
	h := newHarness(t, foundSpec(nil), nil)
	e := h.engine

	assert.ErrorIs(t, e.UpdateField("nickname", "x"), ErrUnknownField)
	assert.ErrorIs(t, e.UpdateField("places", "x"), ErrUnknownField)
	assert.ErrorIs(t, e.ToggleSetMember("name", "x"), ErrUnknownField)
	assert.ErrorIs(t, e.SetFlag("name", true), ErrUnknownField)

	require.NoError(t, e.ToggleSetMember("places", "CEU"))
	require.NoError(t, e.ToggleSetMember("places", "Cantina"))
	assert.Equal(t, []string{"CEU", "Cantina"}, e.State().Set("places"))
	require.NoError(t, e.ToggleSetMember("places", "CEU"))
	assert.Equal(t, []string{"Cantina"}, e.State().Set("places"))

	require.NoError(t, e.SetFlag("allowMessages", true))
	assert.True(t, e.State().Flag("allowMessages"))
}

func TestPrefillIsResetPoint(t *testing.T) {
	calls := 0
	spec := foundSpec(protocolSubmit(&calls))
	spec.Rules = nil
	h := newHarness(t, spec, nil)
	h.engine.Prefill(Prefill{
		Values: map[string]string{"name": "Carteira de couro preta", "unknown": "ignored"},
		Flags:  map[string]bool{"allowMessages": true},
	})
	require.Equal(t, "Carteira de couro preta", h.engine.State().Value("name"))

	require.NoError(t, h.engine.UpdateField("name", "Carteira marrom"))
	h.run(h.engine.Submit())

	assert.Equal(t, "Carteira de couro preta", h.engine.State().Value("name"))
	assert.True(t, h.engine.State().Flag("allowMessages"))
	assert.Empty(t, h.engine.State().Value("unknown"))
}

func TestPrefillKeepsFirstImagesUpToCapacity(t *testing.T) {
	h := newHarness(t, foundSpec(nil), nil)
	var stored []models.Image
	for i := 1; i <= MaxImages+2; i++ {
		stored = append(stored, models.Image{Name: fmt.Sprintf("foto-%02d.png", i), MIME: "image/png"})
	}

	h.engine.Prefill(Prefill{Images: stored})

	imgs := h.engine.State().Images()
	require.Equal(t, MaxImages, imgs.Len())
	assert.Equal(t, "foto-01.png", imgs.Items()[0].Name)
	assert.Equal(t, fmt.Sprintf("foto-%02d.png", MaxImages), imgs.Items()[MaxImages-1].Name)
}

func TestReceiptOverridesDestination(t *testing.T) {
	spec := Spec{
		ID:          "login",
		Fields:      []Field{{Name: "email", Kind: Text}},
		Destination: router.Dashboard,
		Submit: func(ctx context.Context, snap Snapshot) (Receipt, error) {
			return Receipt{Destination: router.AdminDashboard, Token: "t"}, nil
		},
	}
	h := newHarness(t, spec, nil)
	out := h.run(h.engine.Submit())

	navs := find[router.NavigateMsg](out)
	require.Len(t, navs, 1)
	assert.Equal(t, router.NavigateMsg{To: router.AdminDashboard, Token: "t"}, navs[0])
	// No Success func and no message: no toast.
	assert.Equal(t, 0, h.count(toast.Success))
}

func TestSubmitWithoutDestinationStays(t *testing.T) {
	spec := Spec{
		ID:     "report",
		Fields: []Field{{Name: "reason", Kind: Text}},
		Rules:  []Rule{Required("reason", "Descreva o motivo")},
		Submit: func(ctx context.Context, snap Snapshot) (Receipt, error) {
			return Receipt{Message: "Denúncia enviada"}, nil
		},
	}
	h := newHarness(t, spec, nil)
	require.NoError(t, h.engine.UpdateField("reason", "  "))
	h.run(h.engine.Submit())
	assert.True(t, h.engine.Errors().Has("reason"))

	require.NoError(t, h.engine.UpdateField("reason", "objeto já devolvido"))
	out := h.run(h.engine.Submit())
	assert.Empty(t, find[router.NavigateMsg](out))
	assert.Equal(t, 1, h.count(toast.Success))
	assert.Empty(t, h.engine.State().Value("reason"))
}

func TestRules(t *testing.T) {
	fields := []Field{
		{Name: "password", Kind: Secret},
		{Name: "confirm", Kind: Secret},
		{Name: "terms", Kind: Toggle},
		{Name: "tags", Kind: MultiChoice},
	}
	rules := []Rule{
		Required("password", "Senha é obrigatória"),
		MinLength("password", 6, "Mínimo de 6 caracteres"),
		SameAs("confirm", "password", "As senhas não coincidem"),
		RequiredFlag("terms", "Você deve aceitar os termos de uso"),
		RequiredMember("tags", "Escolha ao menos um"),
	}

	tests := []struct {
		name  string
		setup func(s *State)
		want  []string
	}{
		{
			name:  "empty form",
			setup: func(s *State) {},
			want:  []string{"password", "tags", "terms"},
		},
		{
			name: "short password mismatch",
			setup: func(s *State) {
				s.UpdateField("password", "abc")
				s.UpdateField("confirm", "abd")
				s.SetFlag("terms", true)
				s.ToggleSetMember("tags", "x")
			},
			want: []string{"confirm", "password"},
		},
		{
			name: "all good",
			setup: func(s *State) {
				s.UpdateField("password", "segredo1")
				s.UpdateField("confirm", "segredo1")
				s.SetFlag("terms", true)
				s.ToggleSetMember("tags", "x")
			},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(fields, 0)
			tt.setup(s)
			assert.Equal(t, tt.want, Validate(rules, s).Fields())
		})
	}
}

func TestFileDecoder(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "foto.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n0000IHDR"), 0o644))
	txt := filepath.Join(dir, "nota.txt")
	require.NoError(t, os.WriteFile(txt, []byte("not an image"), 0o644))

	img, err := FileDecoder{}.Decode(context.Background(), png)
	require.NoError(t, err)
	assert.Equal(t, "foto.png", img.Name)
	assert.Equal(t, "image/png", img.MIME)
	assert.Contains(t, img.DataURI, "data:image/png;base64,")

	_, err = FileDecoder{}.Decode(context.Background(), txt)
	assert.Error(t, err)

	_, err = FileDecoder{MaxBytes: 4}.Decode(context.Background(), png)
	assert.Error(t, err)

	_, err = FileDecoder{}.Decode(context.Background(), filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	imgs, err := DecodeBatch(context.Background(), FileDecoder{}, []string{png, png})
	require.NoError(t, err)
	assert.Len(t, imgs, 2)
}
