package models

import "time"

type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
	RoleStaff     Role = "staff"
)

func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "Aluno"
	case RoleProfessor:
		return "Professor"
	case RoleStaff:
		return "Servidor técnico-administrativo"
	}
	return string(r)
}

// ParseRole accepts either the stored value or its label.
func ParseRole(s string) (Role, bool) {
	for _, r := range []Role{RoleStudent, RoleProfessor, RoleStaff} {
		if s == string(r) || s == r.Label() {
			return r, true
		}
	}
	return "", false
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Admin        bool      `json:"admin"`
	Blocked      bool      `json:"blocked"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type SignupRequest struct {
	Name     string
	Email    string
	Role     Role
	Password string
}

type Session struct {
	UserID    string
	Name      string
	Email     string
	Admin     bool
	Token     string
	ExpiresAt time.Time
}

func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.Token != "" && now.Before(s.ExpiresAt)
}
