// Package form drives the fill, validate, submit, feedback and redirect
// lifecycle shared by every create/edit screen.
package form

import (
	"strings"

	"github.com/leeozaka/achados/internal/models"
	"github.com/leeozaka/achados/internal/observability"
)

type FieldKind int

const (
	Text FieldKind = iota
	Secret
	Choice
	MultiChoice
	Toggle
	Images
)

type Field struct {
	Name        string
	Label       string
	Kind        FieldKind
	Options     []string
	Placeholder string
	Required    bool // only marks the label; rules decide validity
}

// Prefill seeds a form, e.g. the edit screen with the stored object.
type Prefill struct {
	Values map[string]string
	Sets   map[string][]string
	Flags  map[string]bool
	Images []models.Image
}

// State holds the live values of one form. Field identities are fixed by
// the fields it was created with.
type State struct {
	fields map[string]Field
	values map[string]string
	sets   map[string][]string
	flags  map[string]bool
	images *ImageCollection
}

func NewState(fields []Field, maxImages int) *State {
	s := &State{
		fields: make(map[string]Field, len(fields)),
		values: make(map[string]string),
		sets:   make(map[string][]string),
		flags:  make(map[string]bool),
		images: NewImageCollection(maxImages),
	}
	for _, f := range fields {
		s.fields[f.Name] = f
	}
	return s
}

func (s *State) apply(p Prefill) {
	for k, v := range p.Values {
		if s.kindOf(k, Text, Secret, Choice) {
			s.values[k] = v
		}
	}
	for k, v := range p.Sets {
		if s.kindOf(k, MultiChoice) {
			s.sets[k] = append([]string(nil), v...)
		}
	}
	for k, v := range p.Flags {
		if s.kindOf(k, Toggle) {
			s.flags[k] = v
		}
	}
	if imgs := p.Images; len(imgs) > 0 {
		// records stored before the limit keep their first photos
		if n := s.images.Max(); len(imgs) > n {
			observability.Logger().Warn("prefill images truncated", "images", len(imgs), "max", n)
			imgs = imgs[:n]
		}
		if err := s.images.Append(imgs...); err != nil {
			observability.Logger().Error("prefill images dropped", "error", err)
		}
	}
}

func (s *State) kindOf(name string, kinds ...FieldKind) bool {
	f, ok := s.fields[name]
	if !ok {
		return false
	}
	for _, k := range kinds {
		if f.Kind == k {
			return true
		}
	}
	return false
}

// UpdateField sets a text, secret or choice value. It never touches validation.
func (s *State) UpdateField(name, value string) error {
	if !s.kindOf(name, Text, Secret, Choice) {
		return ErrUnknownField
	}
	s.values[name] = value
	return nil
}

// ToggleSetMember adds value to a multi-choice field if absent, removes it if present.
func (s *State) ToggleSetMember(name, value string) error {
	if !s.kindOf(name, MultiChoice) {
		return ErrUnknownField
	}
	cur := s.sets[name]
	for i, v := range cur {
		if v == value {
			s.sets[name] = append(cur[:i:i], cur[i+1:]...)
			return nil
		}
	}
	s.sets[name] = append(cur, value)
	return nil
}

func (s *State) SetFlag(name string, on bool) error {
	if !s.kindOf(name, Toggle) {
		return ErrUnknownField
	}
	s.flags[name] = on
	return nil
}

func (s *State) Value(name string) string {
	return s.values[name]
}

// Filled reports whether a text-like field has a non-blank value.
func (s *State) Filled(name string) bool {
	return strings.TrimSpace(s.values[name]) != ""
}

func (s *State) Set(name string) []string {
	return append([]string(nil), s.sets[name]...)
}

func (s *State) HasMember(name, value string) bool {
	for _, v := range s.sets[name] {
		if v == value {
			return true
		}
	}
	return false
}

func (s *State) Flag(name string) bool {
	return s.flags[name]
}

func (s *State) Images() *ImageCollection {
	return s.images
}

// Snapshot copies the state so it can cross into a background command.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Values: make(map[string]string, len(s.values)),
		Sets:   make(map[string][]string, len(s.sets)),
		Flags:  make(map[string]bool, len(s.flags)),
		Images: s.images.Items(),
	}
	for k, v := range s.values {
		snap.Values[k] = strings.TrimSpace(v)
	}
	for k, v := range s.sets {
		snap.Sets[k] = append([]string(nil), v...)
	}
	for k, v := range s.flags {
		snap.Flags[k] = v
	}
	return snap
}

// Snapshot is an immutable copy of a State handed to a SubmitFunc.
type Snapshot struct {
	Values map[string]string
	Sets   map[string][]string
	Flags  map[string]bool
	Images []models.Image
}

func (s Snapshot) Value(name string) string {
	return s.Values[name]
}

func (s Snapshot) Set(name string) []string {
	return s.Sets[name]
}

func (s Snapshot) Flag(name string) bool {
	return s.Flags[name]
}
