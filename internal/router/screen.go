// Package router maps logical screen identifiers to views and keeps a
// navigable history so back-navigation restores the previous screen.
package router

import "sort"

// ScreenID is a logical identifier for a navigable view.
type ScreenID string

const (
	Landing        ScreenID = "landing"
	Login          ScreenID = "login"
	Signup         ScreenID = "signup"
	ForgotPassword ScreenID = "forgot-password"

	Dashboard     ScreenID = "dashboard"
	Home          ScreenID = "home"
	RegisterFound ScreenID = "register-found"
	RegisterLost  ScreenID = "register-lost"
	Search        ScreenID = "search"
	ObjectDetail  ScreenID = "object-detail"
	MyObjects     ScreenID = "my-objects"
	Messages      ScreenID = "messages"
	EditObject    ScreenID = "edit-object"
	Profile       ScreenID = "profile"
	Help          ScreenID = "help"
	Onboarding    ScreenID = "onboarding"

	AdminDashboard    ScreenID = "admin-dashboard"
	AdminObjects      ScreenID = "admin-objects"
	AdminReportDetail ScreenID = "admin-report-detail"
	AdminReports      ScreenID = "admin-reports"
	AdminUsers        ScreenID = "admin-users"
)

// Tier groups screens by who may see them.
type Tier int

const (
	TierPublic Tier = iota
	TierUser
	TierAdmin
)

type screenInfo struct {
	path  string
	tier  Tier
	title string
}

var screens = map[ScreenID]screenInfo{
	Landing:        {"/", TierPublic, "Achados UESC"},
	Login:          {"/login", TierPublic, "Entrar"},
	Signup:         {"/signup", TierPublic, "Criar conta"},
	ForgotPassword: {"/forgot-password", TierPublic, "Recuperar senha"},

	Dashboard:     {"/dashboard", TierUser, "Início"},
	Home:          {"/dashboard", TierUser, "Início"},
	RegisterFound: {"/register-found", TierUser, "Registrar objeto encontrado"},
	RegisterLost:  {"/register-lost", TierUser, "Registrar objeto perdido"},
	Search:        {"/search", TierUser, "Buscar objetos"},
	ObjectDetail:  {"/object-detail", TierUser, "Detalhes do objeto"},
	MyObjects:     {"/my-objects", TierUser, "Meus objetos"},
	Messages:      {"/messages", TierUser, "Mensagens"},
	EditObject:    {"/edit-object", TierUser, "Editar objeto"},
	Profile:       {"/profile", TierUser, "Meu perfil"},
	Help:          {"/help", TierPublic, "Ajuda"},
	Onboarding:    {"/onboarding", TierUser, "Bem-vindo"},

	AdminDashboard:    {"/admin-dashboard", TierAdmin, "Painel administrativo"},
	AdminObjects:      {"/admin-objects", TierAdmin, "Gerenciar objetos"},
	AdminReportDetail: {"/admin-report-detail", TierAdmin, "Denúncia"},
	AdminReports:      {"/admin-reports", TierAdmin, "Relatórios"},
	AdminUsers:        {"/admin-users", TierAdmin, "Usuários"},
}

// aliases resolve to a canonical screen sharing the same path.
var aliases = map[ScreenID]ScreenID{
	Home: Dashboard,
}

// All returns every known screen identifier, aliases included, sorted by
// path and then by id.
func All() []ScreenID {
	out := make([]ScreenID, 0, len(screens))
	for id := range screens {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		if pi, pj := out[i].Path(), out[j].Path(); pi != pj {
			return pi < pj
		}
		return out[i] < out[j]
	})
	return out
}

// Resolve maps an arbitrary identifier to a canonical known screen.
// Unknown identifiers resolve to Landing.
func Resolve(id string) ScreenID {
	s := ScreenID(id)
	if _, ok := screens[s]; !ok {
		return Landing
	}
	if canon, ok := aliases[s]; ok {
		return canon
	}
	return s
}

// FromPath maps a URL-style path to its screen. Unknown paths resolve to Landing.
func FromPath(path string) ScreenID {
	if path == "" {
		return Landing
	}
	for id, info := range screens {
		if _, alias := aliases[id]; alias {
			continue
		}
		if info.path == path {
			return id
		}
	}
	return Landing
}

func (s ScreenID) Known() bool {
	_, ok := screens[s]
	return ok
}

func (s ScreenID) Path() string {
	return screens[Resolve(string(s))].path
}

func (s ScreenID) Tier() Tier {
	return screens[Resolve(string(s))].tier
}

func (s ScreenID) Title() string {
	return screens[Resolve(string(s))].title
}

func (s ScreenID) String() string {
	return string(s)
}
