package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leeozaka/achados/internal/models"
	"github.com/leeozaka/achados/internal/observability"
	"github.com/leeozaka/achados/internal/router"
	"github.com/leeozaka/achados/internal/toast"
	"github.com/leeozaka/achados/pkg/utils"
)

func statsView(st models.Stats) string {
	rows := []struct {
		label string
		value int
	}{
		{"Objetos registrados", st.TotalObjects},
		{"Perdidos", st.Lost},
		{"Encontrados", st.Found},
		{"Devolvidos", st.Returned},
		{"Denúncias pendentes", st.PendingReports},
		{"Usuários", st.Users},
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-22s %s\n", r.label, selectedStyle.Render(fmt.Sprint(r.value))))
	}
	return b.String()
}

// admin dashboard

type adminDashboard struct {
	base
	stats *models.Stats
}

func newAdminDashboard(e *env) *adminDashboard {
	s := &adminDashboard{}
	s.start(e)
	return s
}

func (s *adminDashboard) Enter(string) tea.Cmd {
	return s.load("stats", func(ctx context.Context) (any, error) {
		return s.env.store.Stats(ctx)
	})
}

func (s *adminDashboard) Update(msg tea.Msg) tea.Cmd {
	if m, ok := s.loaded(msg); ok {
		if m.err != nil {
			return s.failed(m.err, "Não foi possível carregar as estatísticas.")
		}
		st := m.value.(models.Stats)
		s.stats = &st
		return nil
	}
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch k.String() {
	case "o":
		return router.Go(router.AdminObjects, "")
	case "r":
		return router.Go(router.AdminReports, "")
	case "u":
		return router.Go(router.AdminUsers, "")
	case "s":
		return logout()
	}
	return nil
}

func (s *adminDashboard) View(int) string {
	if s.stats == nil {
		return dimmedStyle.Render("Carregando...")
	}
	return highlightStyle.Render("Visão geral") + "\n\n" + statsView(*s.stats)
}

func (s *adminDashboard) Help() string {
	return shortcut("O", "objetos") + ", " + shortcut("R", "relatórios e denúncias") + ", " + shortcut("U", "usuários") + ", " + shortcut("S", "sair")
}

// admin objects

type adminObjects struct {
	base
	query     textinput.Model
	typing    bool
	kind      models.ObjectKind
	statusPos int
	objects   []models.ObjectSummary
	cursor    cursor
	confirm   string
}

func newAdminObjects(e *env) *adminObjects {
	s := &adminObjects{statusPos: -1}
	s.start(e)
	s.query = textinput.New()
	s.query.Placeholder = "Buscar por nome"
	s.query.Width = 40
	return s
}

func (s *adminObjects) Enter(string) tea.Cmd {
	return s.reload()
}

func (s *adminObjects) reload() tea.Cmd {
	f := models.ObjectFilter{Query: s.query.Value(), Kind: s.kind}
	if s.statusPos >= 0 {
		f.Statuses = []models.ObjectStatus{models.AllStatuses[s.statusPos]}
	}
	return s.load("objects", func(ctx context.Context) (any, error) {
		return s.env.store.ListObjects(ctx, f)
	})
}

func (s *adminObjects) Update(msg tea.Msg) tea.Cmd {
	if m, ok := s.loaded(msg); ok {
		switch m.key {
		case "objects":
			if m.err != nil {
				return s.failed(m.err, "Não foi possível carregar os objetos.")
			}
			s.objects = m.value.([]models.ObjectSummary)
			s.cursor.clamp(len(s.objects))
		case "removed":
			if m.err != nil {
				return s.failed(m.err, "Não foi possível remover o objeto.")
			}
			return tea.Batch(s.env.toasts.Show(toast.Success, "Registro removido."), s.reload())
		}
		return nil
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if s.typing {
		if k.String() == "enter" || k.String() == "tab" {
			s.typing = false
			s.query.Blur()
			return s.reload()
		}
		var cmd tea.Cmd
		s.query, cmd = s.query.Update(k)
		return cmd
	}

	if s.confirm != "" {
		id := s.confirm
		s.confirm = ""
		if key.Matches(k, listKeys.Yes) {
			return s.load("removed", func(ctx context.Context) (any, error) {
				return nil, s.env.store.DeleteObject(ctx, id)
			})
		}
		return nil
	}

	if s.cursor.update(k, len(s.objects)) {
		return nil
	}
	switch k.String() {
	case "/":
		s.typing = true
		s.query.Focus()
		return nil
	case "t":
		switch s.kind {
		case "":
			s.kind = models.KindLost
		case models.KindLost:
			s.kind = models.KindFound
		default:
			s.kind = ""
		}
		return s.reload()
	case "f":
		s.statusPos = cycle(s.statusPos, len(models.AllStatuses))
		return s.reload()
	case "enter":
		if len(s.objects) > 0 {
			return router.Go(router.ObjectDetail, s.objects[s.cursor.pos].ID)
		}
	case "x":
		if len(s.objects) > 0 {
			s.confirm = s.objects[s.cursor.pos].ID
		}
	}
	return nil
}

func (s *adminObjects) View(int) string {
	var b strings.Builder
	b.WriteString(s.query.View() + "\n")
	status := "Todos"
	if s.statusPos >= 0 {
		status = models.AllStatuses[s.statusPos].Label()
	}
	b.WriteString(fmt.Sprintf("Tipo: %s   Status: %s\n\n", highlightStyle.Render(s.kind.Label()), highlightStyle.Render(status)))
	b.WriteString(objectList(s.objects, s.cursor, "Nenhum objeto."))
	if s.confirm != "" {
		b.WriteString("\n" + errorStyle.Render("Remover este registro? (s/n)") + "\n")
	}
	return b.String()
}

func (s *adminObjects) Help() string {
	return shortcut("/", "buscar") + ", " + shortcut("T", "tipo") + ", " + shortcut("F", "status") + ", " +
		shortcut("Enter", "detalhes") + ", " + shortcut("X", "remover")
}

// admin report detail

type redirectMsg struct {
	token uint64
}

var lastRedirect atomic.Uint64

var reportActions = map[string]struct {
	action  models.ReportAction
	confirm string
}{
	"k": {models.ActionKeep, "Manter o registro e arquivar a denúncia?"},
	"r": {models.ActionRemove, "Remover o registro denunciado?"},
	"b": {models.ActionBlock, "Remover o registro e bloquear o usuário?"},
}

type adminReportDetail struct {
	base
	report   *models.Report
	object   *models.Object
	pending  models.ReportAction
	redirect uint64
}

func newAdminReportDetail(e *env) *adminReportDetail {
	s := &adminReportDetail{}
	s.start(e)
	return s
}

func (s *adminReportDetail) Enter(token string) tea.Cmd {
	return s.load("report", func(ctx context.Context) (any, error) {
		return s.env.store.GetReport(ctx, token)
	})
}

func (s *adminReportDetail) Update(msg tea.Msg) tea.Cmd {
	if m, ok := s.loaded(msg); ok {
		switch m.key {
		case "report":
			if m.err != nil {
				return tea.Batch(s.failed(m.err, "Denúncia não encontrada."), router.GoBack())
			}
			r := m.value.(models.Report)
			s.report = &r
			return s.load("object", func(ctx context.Context) (any, error) {
				return s.env.store.GetObject(ctx, r.ObjectID)
			})
		case "object":
			if m.err == nil {
				o := m.value.(models.Object)
				s.object = &o
			}
		case "resolved":
			if m.err != nil {
				return s.failed(m.err, "Não foi possível concluir a ação.")
			}
			token := lastRedirect.Add(1)
			s.redirect = token
			return tea.Batch(
				s.env.toasts.Show(toast.Success, "Ação realizada com sucesso!"),
				s.env.tick(s.env.cfg.Timing.RedirectDelay, func(time.Time) tea.Msg { return redirectMsg{token: token} }),
			)
		}
		return nil
	}

	switch msg := msg.(type) {
	case redirectMsg:
		if msg.token == 0 || msg.token != s.redirect {
			return nil
		}
		s.redirect = 0
		return router.Go(router.AdminReports, "")
	case tea.KeyMsg:
		if s.report == nil || s.report.Status != models.ReportPending || s.redirect != 0 {
			return nil
		}
		if s.pending != "" {
			action := s.pending
			s.pending = ""
			if !key.Matches(msg, listKeys.Yes) {
				return nil
			}
			id := s.report.ID
			observability.LoggerFromContext(s.ctx).Info("resolving report", "report_id", id, "action", string(action))
			return s.load("resolved", func(ctx context.Context) (any, error) {
				return nil, s.env.store.ResolveReport(ctx, id, action)
			})
		}
		if a, ok := reportActions[msg.String()]; ok {
			s.pending = a.action
		}
	}
	return nil
}

func (s *adminReportDetail) View(int) string {
	if s.report == nil {
		return dimmedStyle.Render("Carregando...")
	}
	r := s.report
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Denúncia %s  %s\n\n", protocolStyle.Render(r.ID), highlightStyle.Render(string(r.Status))))
	b.WriteString(fmt.Sprintf("%s: %s\n", dimmedStyle.Render("Objeto"), r.ObjectName))
	b.WriteString(fmt.Sprintf("%s: %s\n", dimmedStyle.Render("Denunciado por"), r.ReporterName))
	b.WriteString(fmt.Sprintf("%s: %s\n", dimmedStyle.Render("Data"), r.CreatedAt.Format("02/01/2006 15:04")))
	b.WriteString(fmt.Sprintf("%s: %s\n", dimmedStyle.Render("Motivo"), r.Reason))
	if o := s.object; o != nil {
		b.WriteString("\n" + highlightStyle.Render("Registro denunciado") + "\n")
		b.WriteString(objectLine(o.ObjectSummary, false) + "\n")
		if o.Description != "" {
			b.WriteString("  " + o.Description + "\n")
		}
	}
	for _, a := range reportActions {
		if a.action == s.pending {
			b.WriteString("\n" + errorStyle.Render(a.confirm+" (s/n)") + "\n")
		}
	}
	return b.String()
}

func (s *adminReportDetail) Help() string {
	return shortcut("K", "manter") + ", " + shortcut("R", "remover registro") + ", " + shortcut("B", "bloquear usuário")
}

func (s *adminReportDetail) Leave() {
	s.redirect = 0
	s.base.Leave()
}

// admin reports

type adminReports struct {
	base
	stats   *models.Stats
	reports []models.Report
	cursor  cursor
}

func newAdminReports(e *env) *adminReports {
	s := &adminReports{}
	s.start(e)
	return s
}

func (s *adminReports) Enter(string) tea.Cmd {
	return tea.Batch(
		s.load("stats", func(ctx context.Context) (any, error) { return s.env.store.Stats(ctx) }),
		s.load("reports", func(ctx context.Context) (any, error) { return s.env.store.ListReports(ctx) }),
	)
}

// export writes every object to dir in the given format.
func (s *adminReports) export(format string) tea.Cmd {
	dir := s.env.exportDir
	path := filepath.Join(dir, utils.ExportFileName(format, s.env.now()))
	return s.load("exported", func(ctx context.Context) (any, error) {
		objects, err := s.env.store.ListObjects(ctx, models.ObjectFilter{})
		if err != nil {
			return nil, err
		}
		if format == "csv" {
			err = utils.ExportObjectsToCSV(objects, path)
		} else {
			err = utils.ExportObjectsToExcel(objects, path)
		}
		return path, err
	})
}

func (s *adminReports) Update(msg tea.Msg) tea.Cmd {
	if m, ok := s.loaded(msg); ok {
		if m.err != nil {
			return s.failed(m.err, "Não foi possível concluir a operação.")
		}
		switch m.key {
		case "stats":
			st := m.value.(models.Stats)
			s.stats = &st
		case "reports":
			s.reports = m.value.([]models.Report)
			s.cursor.clamp(len(s.reports))
		case "exported":
			return s.env.toasts.Show(toast.Success, "Relatório exportado para "+m.value.(string))
		}
		return nil
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if s.cursor.update(k, len(s.reports)) {
		return nil
	}
	switch k.String() {
	case "enter":
		if len(s.reports) > 0 {
			return router.Go(router.AdminReportDetail, s.reports[s.cursor.pos].ID)
		}
	case "e":
		return s.export("xlsx")
	case "c":
		return s.export("csv")
	}
	return nil
}

func (s *adminReports) View(int) string {
	var b strings.Builder
	if s.stats != nil {
		b.WriteString(highlightStyle.Render("Resumo") + "\n" + statsView(*s.stats) + "\n")
	}
	b.WriteString(highlightStyle.Render("Denúncias") + "\n")
	if len(s.reports) == 0 {
		b.WriteString(dimmedStyle.Render("Nenhuma denúncia.") + "\n")
	}
	for i, r := range s.reports {
		line := fmt.Sprintf("%-28s %-20s %s", r.ObjectName, r.ReporterName, r.Status)
		if i == s.cursor.pos {
			line = selectedStyle.Render("› " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (s *adminReports) Help() string {
	return shortcut("Enter", "analisar denúncia") + ", " + shortcut("E", "exportar relatório completo (xlsx)") + ", " + shortcut("C", "exportar csv")
}

// admin users

type adminUsers struct {
	base
	users  []models.User
	cursor cursor
}

func newAdminUsers(e *env) *adminUsers {
	s := &adminUsers{}
	s.start(e)
	return s
}

func (s *adminUsers) Enter(string) tea.Cmd {
	return s.reload()
}

func (s *adminUsers) reload() tea.Cmd {
	return s.load("users", func(ctx context.Context) (any, error) {
		return s.env.store.ListUsers(ctx)
	})
}

func (s *adminUsers) Update(msg tea.Msg) tea.Cmd {
	if m, ok := s.loaded(msg); ok {
		switch m.key {
		case "users":
			if m.err != nil {
				return s.failed(m.err, "Não foi possível carregar os usuários.")
			}
			s.users = m.value.([]models.User)
			s.cursor.clamp(len(s.users))
		case "blocked":
			if m.err != nil {
				return s.failed(m.err, "Não foi possível atualizar o usuário.")
			}
			return tea.Batch(s.env.toasts.Show(toast.Success, m.value.(string)), s.reload())
		}
		return nil
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if s.cursor.update(k, len(s.users)) {
		return nil
	}
	if k.String() == "b" && len(s.users) > 0 {
		u := s.users[s.cursor.pos]
		if u.ID == s.env.userID() {
			return s.env.toasts.Show(toast.Info, "Você não pode bloquear a própria conta.")
		}
		text := "Usuário bloqueado."
		if u.Blocked {
			text = "Usuário desbloqueado."
		}
		return s.load("blocked", func(ctx context.Context) (any, error) {
			return text, s.env.store.SetBlocked(ctx, u.ID, !u.Blocked)
		})
	}
	return nil
}

func (s *adminUsers) View(int) string {
	var b strings.Builder
	for i, u := range s.users {
		state := successStyle.Width(0).Render("Ativo")
		if u.Blocked {
			state = errorStyle.Width(0).Render("Bloqueado")
		}
		line := fmt.Sprintf("%-22s %-28s %-32s %s", u.Name, u.Email, u.Role.Label(), state)
		if u.Admin {
			line += " " + matchStyle.Render("admin")
		}
		if i == s.cursor.pos {
			line = selectedStyle.Render("› ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (s *adminUsers) Help() string {
	return shortcut("B", "bloquear ou desbloquear")
}
