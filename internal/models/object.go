package models

import (
	"fmt"
	"strings"
	"time"
)

type ObjectKind string

const (
	KindLost  ObjectKind = "lost"
	KindFound ObjectKind = "found"
)

func (k ObjectKind) Label() string {
	switch k {
	case KindLost:
		return "Perdido"
	case KindFound:
		return "Encontrado"
	}
	return "Todos"
}

type ObjectStatus string

const (
	StatusOpen       ObjectStatus = "open"
	StatusMatched    ObjectStatus = "matched"
	StatusInProgress ObjectStatus = "in-progress"
	StatusReturned   ObjectStatus = "returned"
)

func (s ObjectStatus) Label() string {
	switch s {
	case StatusOpen:
		return "Em aberto"
	case StatusMatched:
		return "Correspondência"
	case StatusInProgress:
		return "Em processo"
	case StatusReturned:
		return "Devolvido"
	}
	return string(s)
}

var AllStatuses = []ObjectStatus{StatusOpen, StatusMatched, StatusInProgress, StatusReturned}

var Categories = []string{
	"Eletrônicos",
	"Documentos",
	"Materiais acadêmicos",
	"Acessórios",
	"Roupas",
	"Outros",
}

var Locations = []string{
	"Pavilhão Pedro Calmon",
	"Biblioteca Central",
	"CEU",
	"Cantina",
	"Ponto de ônibus interno",
	"Reitoria",
	"Pavilhão Adonias Filho",
	"Departamento de Ciências Exatas",
	"Outros",
}

var VisitedPlaces = []string{
	"Biblioteca Central",
	"Cantina",
	"Pavilhão Pedro Calmon",
	"CEU",
	"Estacionamento",
	"Laboratório de Informática",
	"Quadra esportiva",
	"Auditório",
}

var CurrentLocations = []string{
	"Comigo",
	"Entregue na segurança",
	"Entregue na secretaria do departamento",
}

// Protocol is the confirmation identifier handed out when an object is registered.
type Protocol string

func FormatProtocol(n int64) Protocol {
	return Protocol(fmt.Sprintf("#%d", n))
}

type Image struct {
	Name    string `json:"name"`
	MIME    string `json:"mime"`
	DataURI string `json:"data_uri"`
}

type TimelineEvent struct {
	Event string    `json:"event"`
	At    time.Time `json:"at"`
}

type ObjectSummary struct {
	ID       string       `json:"id"`
	Protocol Protocol     `json:"protocol"`
	Kind     ObjectKind   `json:"kind"`
	Name     string       `json:"name"`
	Category string       `json:"category"`
	Location string       `json:"location"`
	Date     string       `json:"date"` // YYYY-MM-DD
	Status   ObjectStatus `json:"status"`
	OwnerID  string       `json:"owner_id"`
	IsMatch  bool         `json:"is_match,omitempty"`
}

type Object struct {
	ObjectSummary

	LocationDetail  string          `json:"location_detail,omitempty"`
	Time            string          `json:"time,omitempty"`
	Description     string          `json:"description,omitempty"`
	CurrentLocation string          `json:"current_location,omitempty"`
	AllowMessages   bool            `json:"allow_messages"`
	EnableAlert     bool            `json:"enable_alert"`
	VisitedPlaces   []string        `json:"visited_places,omitempty"`
	Images          []Image         `json:"images,omitempty"`
	Timeline        []TimelineEvent `json:"timeline,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Registration is what the register-lost / register-found / edit forms submit.
type Registration struct {
	Kind            ObjectKind
	OwnerID         string
	Name            string
	Category        string
	Location        string
	LocationDetail  string
	Date            string
	Time            string
	Description     string
	CurrentLocation string
	AllowMessages   bool
	EnableAlert     bool
	VisitedPlaces   []string
}

// ObjectFilter selects objects for listObjects. Zero values do not filter.
type ObjectFilter struct {
	Query      string
	Kind       ObjectKind
	Categories []string
	Location   string
	DateFrom   string
	DateTo     string
	Statuses   []ObjectStatus
	OwnerID    string
	Limit      int
}

// SearchKey is the form names and queries are compared in: trimmed and
// lowercased with Unicode folding, so "ÓCULOS " finds "Óculos escuros".
func SearchKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Match reports whether o passes every non-empty criterion of f.
// Dates are compared lexically, which is correct for YYYY-MM-DD.
func (f ObjectFilter) Match(o ObjectSummary) bool {
	if q := SearchKey(f.Query); q != "" && !strings.Contains(SearchKey(o.Name), q) {
		return false
	}
	if f.Kind != "" && o.Kind != f.Kind {
		return false
	}
	if len(f.Categories) > 0 && !contains(f.Categories, o.Category) {
		return false
	}
	if f.Location != "" && o.Location != f.Location {
		return false
	}
	if f.DateFrom != "" && o.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && o.Date > f.DateTo {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if s == o.Status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.OwnerID != "" && o.OwnerID != f.OwnerID {
		return false
	}
	return true
}

func contains(arr []string, s string) bool {
	for _, a := range arr {
		if a == s {
			return true
		}
	}
	return false
}
