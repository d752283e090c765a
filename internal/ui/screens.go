package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leeozaka/achados/internal/form"
	"github.com/leeozaka/achados/internal/models"
	"github.com/leeozaka/achados/internal/router"
	"github.com/leeozaka/achados/internal/toast"
)

var listKeys = struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Left   key.Binding
	Right  key.Binding
	Tab    key.Binding
	Yes    key.Binding
	No     key.Binding
	Reload key.Binding
}{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Open:   key.NewBinding(key.WithKeys("enter")),
	Left:   key.NewBinding(key.WithKeys("left")),
	Right:  key.NewBinding(key.WithKeys("right")),
	Tab:    key.NewBinding(key.WithKeys("tab")),
	Yes:    key.NewBinding(key.WithKeys("y", "s")),
	No:     key.NewBinding(key.WithKeys("n")),
	Reload: key.NewBinding(key.WithKeys("ctrl+r")),
}

// cursor is a selection within a list of n items.
type cursor struct {
	pos int
}

func (c *cursor) move(step, n int) {
	if n == 0 {
		c.pos = 0
		return
	}
	c.pos = min(max(c.pos+step, 0), n-1)
}

func (c *cursor) clamp(n int) {
	c.move(0, n)
}

func (c *cursor) update(k tea.KeyMsg, n int) bool {
	switch {
	case key.Matches(k, listKeys.Up):
		c.move(-1, n)
	case key.Matches(k, listKeys.Down):
		c.move(1, n)
	default:
		return false
	}
	return true
}

func objectLine(o models.ObjectSummary, selected bool) string {
	line := fmt.Sprintf("%s  %-10s %-32s %-22s %s  %s",
		protocolStyle.Render(string(o.Protocol)),
		kindStyle(o.Kind).Render(o.Kind.Label()),
		o.Name, o.Location, o.Date,
		statusStyle(o.Status).Render(o.Status.Label()))
	if o.IsMatch {
		line += " " + matchStyle.Render("Possível correspondência")
	}
	if selected {
		return selectedStyle.Render("› ") + line
	}
	return "  " + line
}

func objectList(objects []models.ObjectSummary, c cursor, empty string) string {
	if len(objects) == 0 {
		return dimmedStyle.Render(empty) + "\n"
	}
	var s strings.Builder
	for i, o := range objects {
		s.WriteString(objectLine(o, i == c.pos) + "\n")
	}
	return s.String()
}

func shortcut(k, label string) string {
	return highlightStyle.Render(k) + " " + label
}

// landing

type landing struct {
	base
}

func newLanding(e *env) *landing {
	s := &landing{}
	s.start(e)
	return s
}

func (s *landing) Enter(string) tea.Cmd { return nil }

func (s *landing) Update(msg tea.Msg) tea.Cmd {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch k.String() {
	case "l", "enter":
		return router.Go(router.Login, "")
	case "c":
		return router.Go(router.Signup, "")
	case "a":
		return router.Go(router.Help, "")
	}
	return nil
}

func (s *landing) View(int) string {
	var b strings.Builder
	b.WriteString("Perdeu ou encontrou algo na UESC?\n\n")
	b.WriteString("O Achados UESC conecta quem perdeu com quem encontrou objetos no campus.\n\n")
	b.WriteString(highlightStyle.Render("Como funciona:\n"))
	b.WriteString("• Registre objetos perdidos ou encontrados\n")
	b.WriteString("• Receba alertas de possíveis correspondências\n")
	b.WriteString("• Converse com segurança pelas mensagens internas\n")
	return b.String()
}

func (s *landing) Help() string {
	return shortcut("L", "entrar") + ", " + shortcut("C", "criar conta") + ", " + shortcut("A", "ajuda")
}

// dashboard

type dashboard struct {
	base
	matches []models.ObjectSummary
	mine    []models.ObjectSummary
	cursor  cursor
	loading bool
}

func newDashboard(e *env) *dashboard {
	s := &dashboard{}
	s.start(e)
	return s
}

func (s *dashboard) Enter(string) tea.Cmd {
	s.loading = true
	user := s.env.userID()
	return tea.Batch(
		s.load("matches", func(ctx context.Context) (any, error) {
			return s.env.store.FetchMatches(ctx, user)
		}),
		s.load("mine", func(ctx context.Context) (any, error) {
			return s.env.store.ListObjects(ctx, models.ObjectFilter{OwnerID: user, Limit: 5})
		}),
	)
}

func (s *dashboard) Update(msg tea.Msg) tea.Cmd {
	if m, ok := s.loaded(msg); ok {
		if m.err != nil {
			return s.failed(m.err, "Não foi possível carregar o painel.")
		}
		switch m.key {
		case "matches":
			s.loading = false
			s.matches = m.value.([]models.ObjectSummary)
			s.cursor.clamp(len(s.matches))
		case "mine":
			s.mine = m.value.([]models.ObjectSummary)
		}
		return nil
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if s.cursor.update(k, len(s.matches)) {
		return nil
	}
	switch k.String() {
	case "enter":
		if len(s.matches) > 0 {
			return router.Go(router.ObjectDetail, s.matches[s.cursor.pos].ID)
		}
	case "p":
		return router.Go(router.RegisterLost, "")
	case "e":
		return router.Go(router.RegisterFound, "")
	case "b":
		return router.Go(router.Search, "")
	case "o":
		return router.Go(router.MyObjects, "")
	case "m":
		return router.Go(router.Messages, "")
	case "f":
		return router.Go(router.Profile, "")
	case "a":
		return router.Go(router.Help, "")
	case "d":
		if sess := s.env.session(); sess != nil && sess.Admin {
			return router.Go(router.AdminDashboard, "")
		}
	case "s":
		return logout()
	}
	return nil
}

func (s *dashboard) View(int) string {
	var b strings.Builder
	if sess := s.env.session(); sess != nil {
		b.WriteString(fmt.Sprintf("Olá, %s!\n\n", sess.Name))
	}
	b.WriteString(shortcut("P", "Perdi um objeto") + "    " + shortcut("E", "Encontrei um objeto") + "    " + shortcut("B", "Buscar objetos") + "\n\n")

	b.WriteString(highlightStyle.Render("Possíveis correspondências") + "\n")
	if s.loading {
		b.WriteString(dimmedStyle.Render("Carregando...") + "\n")
	} else {
		b.WriteString(objectList(s.matches, s.cursor, "Nenhuma correspondência por enquanto."))
	}

	b.WriteString("\n" + highlightStyle.Render("Meus registros recentes") + "\n")
	b.WriteString(objectList(s.mine, cursor{pos: -1}, "Você ainda não registrou objetos."))
	return b.String()
}

func (s *dashboard) Help() string {
	help := shortcut("Enter", "detalhes") + ", " + shortcut("O", "meus objetos") + ", " +
		shortcut("M", "mensagens") + ", " + shortcut("F", "perfil") + ", " + shortcut("A", "ajuda") + ", " + shortcut("S", "sair")
	if sess := s.env.session(); sess != nil && sess.Admin {
		help += ", " + shortcut("D", "administração")
	}
	return help
}

// search

const (
	searchQuery = iota
	searchFrom
	searchTo
	searchResults
)

type search struct {
	base
	inputs  [3]textinput.Model
	focus   int
	filter  models.ObjectFilter
	catPos  int // -1 is every category
	locPos  int
	results []models.ObjectSummary
	cursor  cursor
}

func newSearch(e *env) *search {
	s := &search{catPos: -1, locPos: -1}
	s.start(e)
	placeholders := [3]string{"Buscar por nome do objeto", "De (AAAA-MM-DD)", "Até (AAAA-MM-DD)"}
	for i := range s.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Width = 40
		s.inputs[i] = ti
	}
	s.inputs[searchQuery].Focus()
	return s
}

func (s *search) Enter(string) tea.Cmd {
	return s.refresh()
}

func (s *search) refresh() tea.Cmd {
	s.filter.Query = s.inputs[searchQuery].Value()
	s.filter.DateFrom = strings.TrimSpace(s.inputs[searchFrom].Value())
	s.filter.DateTo = strings.TrimSpace(s.inputs[searchTo].Value())
	s.filter.Categories = nil
	if s.catPos >= 0 {
		s.filter.Categories = []string{models.Categories[s.catPos]}
	}
	s.filter.Location = ""
	if s.locPos >= 0 {
		s.filter.Location = models.Locations[s.locPos]
	}
	f := s.filter
	return s.load("results", func(ctx context.Context) (any, error) {
		return s.env.store.ListObjects(ctx, f)
	})
}

func cycle(pos, n int) int {
	if pos+1 >= n {
		return -1
	}
	return pos + 1
}

func (s *search) toggleStatus(st models.ObjectStatus) {
	for i, v := range s.filter.Statuses {
		if v == st {
			s.filter.Statuses = append(s.filter.Statuses[:i:i], s.filter.Statuses[i+1:]...)
			return
		}
	}
	s.filter.Statuses = append(s.filter.Statuses, st)
}

func (s *search) setFocus(i int) {
	s.focus = (i + 4) % 4
	for j := range s.inputs {
		if j == s.focus {
			s.inputs[j].Focus()
		} else {
			s.inputs[j].Blur()
		}
	}
}

func (s *search) Update(msg tea.Msg) tea.Cmd {
	if m, ok := s.loaded(msg); ok {
		if m.err != nil {
			return s.failed(m.err, "Não foi possível buscar objetos.")
		}
		s.results = m.value.([]models.ObjectSummary)
		s.cursor.clamp(len(s.results))
		return nil
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch k.String() {
	case "tab":
		s.setFocus(s.focus + 1)
		return nil
	case "shift+tab":
		s.setFocus(s.focus - 1)
		return nil
	}

	if s.focus != searchResults {
		if k.String() == "enter" {
			return s.refresh()
		}
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(k)
		if s.focus == searchQuery {
			return tea.Batch(cmd, s.refresh())
		}
		return cmd
	}

	if s.cursor.update(k, len(s.results)) {
		return nil
	}
	switch k.String() {
	case "enter":
		if len(s.results) > 0 {
			return router.Go(router.ObjectDetail, s.results[s.cursor.pos].ID)
		}
		return nil
	case "t":
		switch s.filter.Kind {
		case "":
			s.filter.Kind = models.KindLost
		case models.KindLost:
			s.filter.Kind = models.KindFound
		default:
			s.filter.Kind = ""
		}
	case "c":
		s.catPos = cycle(s.catPos, len(models.Categories))
	case "l":
		s.locPos = cycle(s.locPos, len(models.Locations))
	case "1", "2", "3", "4":
		s.toggleStatus(models.AllStatuses[int(k.String()[0]-'1')])
	case "x":
		s.filter = models.ObjectFilter{}
		s.catPos, s.locPos = -1, -1
		for i := range s.inputs {
			s.inputs[i].SetValue("")
		}
	default:
		return nil
	}
	return s.refresh()
}

func (s *search) View(int) string {
	var b strings.Builder
	for i := range s.inputs {
		b.WriteString(s.inputs[i].View() + "\n")
	}

	cat, loc := "Todas", "Todos"
	if s.catPos >= 0 {
		cat = models.Categories[s.catPos]
	}
	if s.locPos >= 0 {
		loc = models.Locations[s.locPos]
	}
	var statuses []string
	for _, st := range s.filter.Statuses {
		statuses = append(statuses, st.Label())
	}
	if len(statuses) == 0 {
		statuses = []string{"Todos"}
	}
	b.WriteString(fmt.Sprintf("\nTipo: %s   Categoria: %s   Local: %s   Status: %s\n\n",
		highlightStyle.Render(s.filter.Kind.Label()), highlightStyle.Render(cat),
		highlightStyle.Render(loc), highlightStyle.Render(strings.Join(statuses, ", "))))

	c := s.cursor
	if s.focus != searchResults {
		c.pos = -1
	}
	b.WriteString(fmt.Sprintf("%d objeto(s) encontrado(s)\n", len(s.results)))
	b.WriteString(objectList(s.results, c, "Nenhum objeto corresponde aos filtros."))
	return b.String()
}

func (s *search) Help() string {
	if s.focus != searchResults {
		return shortcut("Tab", "ir para os resultados") + ", " + shortcut("Enter", "buscar")
	}
	return shortcut("T", "tipo") + ", " + shortcut("C", "categoria") + ", " + shortcut("L", "local") + ", " +
		shortcut("1-4", "status") + ", " + shortcut("X", "limpar") + ", " + shortcut("Enter", "detalhes")
}

// object detail

type objectDetail struct {
	base
	id        string
	object    *models.Object
	report    *formView
	confirmed bool
}

func newObjectDetail(e *env) *objectDetail {
	s := &objectDetail{}
	s.start(e)
	return s
}

func (s *objectDetail) Enter(token string) tea.Cmd {
	s.id = token
	return s.load("object", func(ctx context.Context) (any, error) {
		return s.env.store.GetObject(ctx, token)
	})
}

func (s *objectDetail) Update(msg tea.Msg) tea.Cmd {
	if m, ok := s.loaded(msg); ok {
		switch m.key {
		case "object":
			if m.err != nil {
				return tea.Batch(s.failed(m.err, "Objeto não encontrado."), router.GoBack())
			}
			o := m.value.(models.Object)
			s.object = &o
		case "conversation":
			if m.err != nil {
				return s.failed(m.err, "Não foi possível iniciar a conversa.")
			}
			return router.Go(router.Messages, m.value.(models.Conversation).ID)
		}
		return nil
	}

	if s.report != nil {
		if sub, ok := msg.(form.SubmittedMsg); ok && sub.FormID == "report" {
			cmd := s.report.Update(msg)
			s.report.engine.Cancel()
			s.report = nil
			return cmd
		}
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "ctrl+x" {
			s.report.engine.Cancel()
			s.report = nil
			return nil
		}
		return s.report.Update(msg)
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok || s.object == nil {
		return nil
	}
	own := s.object.OwnerID == s.env.userID()
	switch k.String() {
	case "m":
		if own {
			return nil
		}
		if !s.object.AllowMessages && s.object.Kind == models.KindFound {
			return s.env.toasts.Show(toast.Info, "Quem registrou este objeto não aceita mensagens.")
		}
		user, obj := s.env.userID(), s.id
		return s.load("conversation", func(ctx context.Context) (any, error) {
			return s.env.store.StartConversation(ctx, user, obj)
		})
	case "d":
		if own {
			return nil
		}
		engine := form.New(reportForm(s.env, s.id), s.env.toasts,
			form.WithContext(s.ctx), form.WithTick(s.env.tick))
		s.report = newFormView(engine, "Enviar denúncia")
	case "e":
		if own && s.object.Status != models.StatusReturned {
			return router.Go(router.EditObject, s.id)
		}
	}
	return nil
}

func (s *objectDetail) View(int) string {
	if s.object == nil {
		return dimmedStyle.Render("Carregando...")
	}
	o := s.object
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s  %s\n\n", protocolStyle.Render(string(o.Protocol)),
		kindStyle(o.Kind).Render(o.Kind.Label()), statusStyle(o.Status).Render(o.Status.Label())))
	b.WriteString(selectedStyle.Render(o.Name) + "\n\n")

	rows := [][2]string{
		{"Categoria", o.Category},
		{"Local", strings.TrimSpace(o.Location + " " + o.LocationDetail)},
		{"Data", strings.TrimSpace(o.Date + " " + o.Time)},
		{"Onde está agora", o.CurrentLocation},
		{"Descrição", o.Description},
	}
	if len(o.VisitedPlaces) > 0 {
		rows = append(rows, [2]string{"Locais por onde passou", strings.Join(o.VisitedPlaces, ", ")})
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", dimmedStyle.Render(r[0]), r[1]))
	}

	if len(o.Images) > 0 {
		b.WriteString("\n" + highlightStyle.Render("Fotos") + "\n")
		for i, img := range o.Images {
			b.WriteString(fmt.Sprintf("  %d. %s %s\n", i+1, img.Name, dimmedStyle.Render(img.MIME)))
		}
	}
	if len(o.Timeline) > 0 {
		b.WriteString("\n" + highlightStyle.Render("Histórico") + "\n")
		for _, ev := range o.Timeline {
			b.WriteString(fmt.Sprintf("  %s  %s\n", dimmedStyle.Render(ev.At.Format("02/01/2006 15:04")), ev.Event))
		}
	}

	if s.report != nil {
		b.WriteString("\n" + highlightStyle.Render("Denunciar este registro") + "\n\n")
		b.WriteString(s.report.View())
	}
	return b.String()
}

func (s *objectDetail) Help() string {
	if s.report != nil {
		return s.report.Help() + ", " + shortcut("Ctrl+X", "fechar denúncia")
	}
	if s.object != nil && s.object.OwnerID == s.env.userID() {
		return shortcut("E", "editar")
	}
	return shortcut("M", "enviar mensagem") + ", " + shortcut("D", "denunciar")
}

func (s *objectDetail) Leave() {
	if s.report != nil {
		s.report.engine.Cancel()
	}
	s.base.Leave()
}

// my objects

var myObjectTabs = []models.ObjectKind{"", models.KindLost, models.KindFound}

type myObjects struct {
	base
	objects []models.ObjectSummary
	tab     int
	cursor  cursor
	confirm string // id awaiting delete confirmation
}

func newMyObjects(e *env) *myObjects {
	s := &myObjects{}
	s.start(e)
	return s
}

func (s *myObjects) Enter(string) tea.Cmd {
	return s.reload()
}

func (s *myObjects) reload() tea.Cmd {
	f := models.ObjectFilter{OwnerID: s.env.userID(), Kind: myObjectTabs[s.tab]}
	return s.load("objects", func(ctx context.Context) (any, error) {
		return s.env.store.ListObjects(ctx, f)
	})
}

func (s *myObjects) selected() (models.ObjectSummary, bool) {
	if len(s.objects) == 0 {
		return models.ObjectSummary{}, false
	}
	return s.objects[s.cursor.pos], true
}

func (s *myObjects) Update(msg tea.Msg) tea.Cmd {
	if m, ok := s.loaded(msg); ok {
		switch m.key {
		case "objects":
			if m.err != nil {
				return s.failed(m.err, "Não foi possível carregar seus objetos.")
			}
			s.objects = m.value.([]models.ObjectSummary)
			s.cursor.clamp(len(s.objects))
		case "returned":
			if m.err != nil {
				return s.failed(m.err, "Não foi possível atualizar o objeto.")
			}
			return tea.Batch(s.env.toasts.Show(toast.Success, "Objeto marcado como devolvido."), s.reload())
		case "deleted":
			if m.err != nil {
				return s.failed(m.err, "Não foi possível excluir o objeto.")
			}
			return tea.Batch(s.env.toasts.Show(toast.Success, "Registro excluído."), s.reload())
		}
		return nil
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if s.confirm != "" {
		id := s.confirm
		s.confirm = ""
		if key.Matches(k, listKeys.Yes) {
			return s.load("deleted", func(ctx context.Context) (any, error) {
				return nil, s.env.store.DeleteObject(ctx, id)
			})
		}
		return nil
	}

	if s.cursor.update(k, len(s.objects)) {
		return nil
	}
	switch {
	case key.Matches(k, listKeys.Left):
		s.tab = (s.tab + len(myObjectTabs) - 1) % len(myObjectTabs)
		return s.reload()
	case key.Matches(k, listKeys.Right, listKeys.Tab):
		s.tab = (s.tab + 1) % len(myObjectTabs)
		return s.reload()
	}

	o, ok := s.selected()
	if !ok {
		return nil
	}
	switch k.String() {
	case "enter":
		return router.Go(router.ObjectDetail, o.ID)
	case "e":
		if o.Status == models.StatusReturned {
			return s.env.toasts.Show(toast.Info, "Objetos devolvidos não podem ser editados.")
		}
		return router.Go(router.EditObject, o.ID)
	case "r":
		if o.Status == models.StatusReturned {
			return nil
		}
		return s.load("returned", func(ctx context.Context) (any, error) {
			return nil, s.env.store.MarkReturned(ctx, o.ID)
		})
	case "x":
		s.confirm = o.ID
	}
	return nil
}

func (s *myObjects) View(int) string {
	var b strings.Builder
	for i, kind := range myObjectTabs {
		label := "Todos"
		if kind != "" {
			label = kind.Label() + "s"
		}
		if i == s.tab {
			b.WriteString(selectedStyle.Render("["+label+"]") + "  ")
		} else {
			b.WriteString(dimmedStyle.Render(label) + "  ")
		}
	}
	b.WriteString("\n\n")
	b.WriteString(objectList(s.objects, s.cursor, "Nenhum objeto nesta aba."))
	if s.confirm != "" {
		b.WriteString("\n" + errorStyle.Render("Excluir este registro? (s/n)") + "\n")
	}
	return b.String()
}

func (s *myObjects) Help() string {
	return shortcut("← →", "abas") + ", " + shortcut("Enter", "detalhes") + ", " + shortcut("E", "editar") + ", " +
		shortcut("R", "marcar como devolvido") + ", " + shortcut("X", "excluir")
}

// help

type faq struct {
	question string
	answer   string
}

var faqs = []faq{
	{"Como registrar um objeto encontrado?", "Escolha \"Encontrei um objeto\" no painel. Preencha o formulário com uma foto (obrigatória), categoria, local, data e uma descrição. Após publicar, o objeto fica visível para quem perdeu algo parecido."},
	{"Como registrar um objeto perdido?", "Escolha \"Perdi um objeto\" no painel e informe categoria, nome, local provável, data aproximada e descrição. Ative os alertas para saber quando objetos semelhantes forem encontrados."},
	{"Como funciona a correspondência de objetos?", "O sistema compara categoria e local dos registros. As correspondências aparecem destacadas no seu painel e na busca."},
	{"É seguro compartilhar fotos de documentos?", "Não mostre CPF, RG ou endereço. Fotografe de forma que seja possível identificar o tipo de documento e descreva o restante."},
	{"Como entro em contato com quem encontrou meu objeto?", "Abra os detalhes do objeto e escolha \"Enviar mensagem\". O contato é sempre intermediado pela plataforma."},
	{"Onde devo retirar um objeto encontrado?", "O local é combinado pelas mensagens. Prefira a segurança do prédio ou a secretaria e leve um documento com foto."},
	{"Posso editar um registro já publicado?", "Sim, enquanto ele não estiver marcado como devolvido. Acesse \"Meus objetos\" e escolha editar."},
	{"Como marco um objeto como devolvido?", "Em \"Meus objetos\", selecione o registro e marque como devolvido."},
	{"O que fazer se eu suspeitar de informações falsas?", "Use \"Denunciar este registro\" nos detalhes do objeto. A administração irá revisar."},
	{"Quanto tempo os objetos ficam no sistema?", "Até serem marcados como devolvidos ou arquivados pela administração."},
}

type help struct {
	base
	cursor cursor
	open   map[int]bool
}

func newHelp(e *env) *help {
	s := &help{open: make(map[int]bool)}
	s.start(e)
	return s
}

func (s *help) Enter(string) tea.Cmd { return nil }

func (s *help) Update(msg tea.Msg) tea.Cmd {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if s.cursor.update(k, len(faqs)) {
		return nil
	}
	if key.Matches(k, listKeys.Open, formKeys.Toggle) {
		s.open[s.cursor.pos] = !s.open[s.cursor.pos]
	}
	return nil
}

func (s *help) View(int) string {
	var b strings.Builder
	b.WriteString(highlightStyle.Render("Perguntas frequentes") + "\n\n")
	for i, f := range faqs {
		q := f.question
		if i == s.cursor.pos {
			q = selectedStyle.Render("› " + q)
		} else {
			q = "  " + q
		}
		b.WriteString(q + "\n")
		if s.open[i] {
			b.WriteString("    " + dimmedStyle.Render(f.answer) + "\n")
		}
	}
	return b.String()
}

func (s *help) Help() string {
	return shortcut("Enter", "abrir ou fechar resposta")
}

// onboarding

type step struct {
	title       string
	description string
}

var onboardingSteps = []step{
	{"Bem-vindo ao Achados UESC!", "Vamos fazer um tour rápido pelas principais funcionalidades da plataforma."},
	{"Perdi um objeto", "Registre objetos que você perdeu no campus e receba alertas quando objetos similares forem encontrados."},
	{"Encontrei um objeto", "Cadastre objetos que você encontrou para ajudar outras pessoas a recuperarem seus pertences."},
	{"Buscar objetos", "Pesquise objetos perdidos e encontrados com filtros de categoria, local, data e status."},
	{"Meus objetos", "Acompanhe os objetos que você registrou e gerencie seus registros."},
	{"Mensagens", "Converse com segurança sobre objetos. O sistema protege seus dados pessoais."},
	{"Tudo pronto!", "Comece a usar a plataforma e ajude a comunidade UESC!"},
}

type onboarding struct {
	base
	step int
}

func newOnboarding(e *env) *onboarding {
	s := &onboarding{}
	s.start(e)
	return s
}

func (s *onboarding) Enter(string) tea.Cmd { return nil }

func (s *onboarding) Update(msg tea.Msg) tea.Cmd {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch k.String() {
	case "right", "enter", " ":
		if s.step == len(onboardingSteps)-1 {
			return router.Go(router.Dashboard, "")
		}
		s.step++
	case "left":
		s.step = max(s.step-1, 0)
	case "p":
		return router.Go(router.Dashboard, "")
	}
	return nil
}

func (s *onboarding) View(int) string {
	st := onboardingSteps[s.step]
	var dots strings.Builder
	for i := range onboardingSteps {
		if i == s.step {
			dots.WriteString(selectedStyle.Render("●"))
		} else {
			dots.WriteString(dimmedStyle.Render("○"))
		}
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s  %d/%d\n", selectedStyle.Render(st.title), st.description,
		dots.String(), s.step+1, len(onboardingSteps))
}

func (s *onboarding) Help() string {
	return shortcut("→", "próximo") + ", " + shortcut("←", "anterior") + ", " + shortcut("P", "pular")
}
