package form

import "strings"

// Rule fails a single field. Rules are evaluated in table order and the
// first failing rule of a field provides its message.
type Rule struct {
	Field   string
	Message string
	Fails   func(s *State) bool
}

func Required(field, message string) Rule {
	return Rule{Field: field, Message: message, Fails: func(s *State) bool {
		return !s.Filled(field)
	}}
}

func RequiredImage(field, message string) Rule {
	return Rule{Field: field, Message: message, Fails: func(s *State) bool {
		return s.Images().Len() == 0
	}}
}

func RequiredFlag(field, message string) Rule {
	return Rule{Field: field, Message: message, Fails: func(s *State) bool {
		return !s.Flag(field)
	}}
}

func RequiredMember(field, message string) Rule {
	return Rule{Field: field, Message: message, Fails: func(s *State) bool {
		return len(s.sets[field]) == 0
	}}
}

// SameAs fails field when its value differs from other's.
func SameAs(field, other, message string) Rule {
	return Rule{Field: field, Message: message, Fails: func(s *State) bool {
		return s.Value(field) != s.Value(other)
	}}
}

func MinLength(field string, n int, message string) Rule {
	return Rule{Field: field, Message: message, Fails: func(s *State) bool {
		v := strings.TrimSpace(s.Value(field))
		return v != "" && len([]rune(v)) < n
	}}
}

// Validate derives the full error map from the current state. It does not
// modify the state and returns an empty map when every rule passes.
func Validate(rules []Rule, s *State) Errors {
	errs := Errors{}
	for _, r := range rules {
		if errs.Has(r.Field) {
			continue
		}
		if r.Fails(s) {
			errs[r.Field] = r.Message
		}
	}
	return errs
}
