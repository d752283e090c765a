package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leeozaka/achados/internal/form"
	"github.com/leeozaka/achados/internal/router"
)

var formKeys = struct {
	Next        key.Binding
	Prev        key.Binding
	Left        key.Binding
	Right       key.Binding
	Toggle      key.Binding
	Enter       key.Binding
	Submit      key.Binding
	RemoveImage key.Binding
}{
	Next:        key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "próximo")),
	Prev:        key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "anterior")),
	Left:        key.NewBinding(key.WithKeys("left")),
	Right:       key.NewBinding(key.WithKeys("right")),
	Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("espaço", "marcar")),
	Enter:       key.NewBinding(key.WithKeys("enter")),
	Submit:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "enviar")),
	RemoveImage: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "remover foto")),
}

// formView renders a form.Engine and turns key presses into its operations.
type formView struct {
	engine *form.Engine
	fields []form.Field
	inputs map[string]*textinput.Model
	cursor map[string]int
	focus  int // len(fields) is the submit button
	submit string
}

func newFormView(engine *form.Engine, submitLabel string) *formView {
	v := &formView{
		engine: engine,
		fields: engine.Spec().Fields,
		inputs: make(map[string]*textinput.Model),
		cursor: make(map[string]int),
		submit: submitLabel,
	}
	for _, f := range v.fields {
		switch f.Kind {
		case form.Text, form.Secret, form.Images:
			ti := textinput.New()
			ti.Placeholder = f.Placeholder
			ti.CharLimit = 512
			ti.Width = 50
			if f.Kind == form.Secret {
				ti.EchoMode = textinput.EchoPassword
				ti.EchoCharacter = '•'
			}
			if f.Kind == form.Images && ti.Placeholder == "" {
				ti.Placeholder = "caminho da foto (separe várias por vírgula)"
			}
			v.inputs[f.Name] = &ti
		}
	}
	v.setFocus(0)
	return v
}

// sync copies the engine state back into the inputs after a prefill or reset.
func (v *formView) sync() {
	st := v.engine.State()
	for _, f := range v.fields {
		ti, ok := v.inputs[f.Name]
		if !ok {
			continue
		}
		if f.Kind == form.Images {
			ti.SetValue("")
			continue
		}
		ti.SetValue(st.Value(f.Name))
	}
}

func (v *formView) setFocus(i int) {
	n := len(v.fields) + 1
	v.focus = ((i % n) + n) % n
	for j, f := range v.fields {
		ti, ok := v.inputs[f.Name]
		if !ok {
			continue
		}
		if j == v.focus {
			ti.Focus()
		} else {
			ti.Blur()
		}
	}
}

func (v *formView) focused() (form.Field, bool) {
	if v.focus >= len(v.fields) {
		return form.Field{}, false
	}
	return v.fields[v.focus], true
}

func (v *formView) Update(msg tea.Msg) tea.Cmd {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		cmd := v.engine.Update(msg)
		if s, ok := msg.(form.SubmittedMsg); ok && s.FormID == v.engine.Spec().ID {
			v.sync()
		}
		return cmd
	}

	switch {
	case key.Matches(k, formKeys.Submit):
		return v.engine.Submit()
	case key.Matches(k, formKeys.Next):
		v.setFocus(v.focus + 1)
		return nil
	case key.Matches(k, formKeys.Prev):
		v.setFocus(v.focus - 1)
		return nil
	case key.Matches(k, formKeys.RemoveImage):
		if n := v.engine.State().Images().Len(); n > 0 {
			_ = v.engine.RemoveImage(n - 1)
		}
		return nil
	}

	f, ok := v.focused()
	if !ok {
		if key.Matches(k, formKeys.Enter, formKeys.Toggle) {
			return v.engine.Submit()
		}
		return nil
	}

	switch f.Kind {
	case form.Choice:
		switch {
		case key.Matches(k, formKeys.Left):
			v.choose(f, -1)
		case key.Matches(k, formKeys.Right, formKeys.Toggle):
			v.choose(f, 1)
		case key.Matches(k, formKeys.Enter):
			v.setFocus(v.focus + 1)
		}
		return nil

	case form.MultiChoice:
		switch {
		case key.Matches(k, formKeys.Left):
			v.cursor[f.Name] = max(v.cursor[f.Name]-1, 0)
		case key.Matches(k, formKeys.Right):
			v.cursor[f.Name] = min(v.cursor[f.Name]+1, len(f.Options)-1)
		case key.Matches(k, formKeys.Toggle):
			if len(f.Options) > 0 {
				_ = v.engine.ToggleSetMember(f.Name, f.Options[v.cursor[f.Name]])
			}
		case key.Matches(k, formKeys.Enter):
			v.setFocus(v.focus + 1)
		}
		return nil

	case form.Toggle:
		switch {
		case key.Matches(k, formKeys.Toggle):
			_ = v.engine.SetFlag(f.Name, !v.engine.State().Flag(f.Name))
		case key.Matches(k, formKeys.Enter):
			v.setFocus(v.focus + 1)
		}
		return nil

	case form.Images:
		ti := v.inputs[f.Name]
		if key.Matches(k, formKeys.Enter) {
			files := splitPaths(ti.Value())
			ti.SetValue("")
			return v.engine.AddImages(files)
		}
		var cmd tea.Cmd
		*ti, cmd = ti.Update(k)
		return cmd
	}

	ti := v.inputs[f.Name]
	if key.Matches(k, formKeys.Enter) {
		v.setFocus(v.focus + 1)
		return nil
	}
	var cmd tea.Cmd
	*ti, cmd = ti.Update(k)
	_ = v.engine.UpdateField(f.Name, ti.Value())
	return cmd
}

func (v *formView) choose(f form.Field, step int) {
	if len(f.Options) == 0 {
		return
	}
	cur := -1
	for i, o := range f.Options {
		if o == v.engine.State().Value(f.Name) {
			cur = i
			break
		}
	}
	n := len(f.Options)
	next := ((cur+step)%n + n) % n
	if cur == -1 && step < 0 {
		next = n - 1
	}
	_ = v.engine.UpdateField(f.Name, f.Options[next])
}

func splitPaths(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (v *formView) View() string {
	var s strings.Builder
	st := v.engine.State()
	errs := v.engine.Errors()

	for i, f := range v.fields {
		label := f.Label
		if f.Required {
			label += fieldErrorStyle.Render(" *")
		}
		if i == v.focus {
			label = selectedStyle.Render("› ") + label
		} else {
			label = "  " + label
		}
		s.WriteString(label + "\n")

		switch f.Kind {
		case form.Text, form.Secret:
			s.WriteString("  " + v.inputs[f.Name].View() + "\n")
		case form.Choice:
			val := st.Value(f.Name)
			if val == "" {
				val = dimmedStyle.Render("Selecione (← →)")
			} else {
				val = highlightStyle.Render("‹ " + val + " ›")
			}
			s.WriteString("  " + val + "\n")
		case form.MultiChoice:
			for j, o := range f.Options {
				box := "[ ]"
				if st.HasMember(f.Name, o) {
					box = "[x]"
				}
				line := fmt.Sprintf("%s %s", box, o)
				if i == v.focus && j == v.cursor[f.Name] {
					line = selectedStyle.Render(line)
				}
				s.WriteString("    " + line + "\n")
			}
		case form.Toggle:
			box := "[ ]"
			if st.Flag(f.Name) {
				box = "[x]"
			}
			s.WriteString("  " + box + "\n")
		case form.Images:
			imgs := st.Images()
			for j, img := range imgs.Items() {
				s.WriteString(fmt.Sprintf("    %d. %s %s\n", j+1, img.Name, dimmedStyle.Render(img.MIME)))
			}
			s.WriteString(fmt.Sprintf("  %s %s\n", v.inputs[f.Name].View(), dimmedStyle.Render(fmt.Sprintf("%d/%d", imgs.Len(), imgs.Max()))))
			if v.engine.DecodingImages() {
				s.WriteString("  " + dimmedStyle.Render("Carregando fotos...") + "\n")
			}
		}

		if errs.Has(f.Name) {
			s.WriteString("  " + fieldErrorStyle.Render(errs[f.Name]) + "\n")
		}
		s.WriteString("\n")
	}

	button := "[ " + v.submit + " ]"
	if v.engine.Submitting() {
		button = "[ Enviando... ]"
	}
	if v.focus == len(v.fields) {
		button = selectedStyle.Render(button)
	}
	s.WriteString(button + "\n")
	return s.String()
}

func (v *formView) Help() string {
	return highlightStyle.Render("Tab") + " próximo campo, " +
		highlightStyle.Render("← →") + " opções, " +
		highlightStyle.Render("Espaço") + " marcar, " +
		highlightStyle.Render("Ctrl+S") + " enviar"
}

// formDef is a declarative form plus how to seed it for a history token.
type formDef struct {
	spec    form.Spec
	submit  string
	prefill func(ctx context.Context, token string) (form.Prefill, error)
}

type formBuilder func(e *env, token string) formDef

// formScreen is a screen made of a single form.
type formScreen struct {
	base
	build formBuilder
	def   formDef
	view  *formView
}

func newFormScreen(e *env, build formBuilder) *formScreen {
	s := &formScreen{build: build}
	s.start(e)
	return s
}

func (s *formScreen) Engine() *form.Engine {
	if s.view == nil {
		return nil
	}
	return s.view.engine
}

func (s *formScreen) Enter(token string) tea.Cmd {
	s.def = s.build(s.env, token)
	engine := form.New(s.def.spec, s.env.toasts,
		form.WithContext(s.ctx),
		form.WithTick(s.env.tick),
		form.WithDecoder(s.env.decoder),
	)
	s.view = newFormView(engine, s.def.submit)
	if s.def.prefill == nil {
		return nil
	}
	prefill := s.def.prefill
	return s.load("prefill", func(ctx context.Context) (any, error) {
		return prefill(ctx, token)
	})
}

func (s *formScreen) Update(msg tea.Msg) tea.Cmd {
	if m, ok := s.loaded(msg); ok && m.key == "prefill" {
		if m.err != nil {
			return tea.Batch(s.failed(m.err, "Não foi possível carregar o registro."), router.GoBack())
		}
		s.view.engine.Prefill(m.value.(form.Prefill))
		s.view.sync()
		return nil
	}
	if s.view == nil {
		return nil
	}
	return s.view.Update(msg)
}

func (s *formScreen) View(width int) string {
	if s.view == nil {
		return ""
	}
	return s.view.View()
}

func (s *formScreen) Help() string {
	if s.view == nil {
		return ""
	}
	return s.view.Help()
}

func (s *formScreen) Leave() {
	if s.view != nil {
		s.view.engine.Cancel()
	}
	s.base.Leave()
}
