// Package backend declares the services the client talks to. Adapters live
// in the memory and sqlstore subpackages.
package backend

import (
	"context"
	"errors"

	"github.com/leeozaka/achados/internal/models"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("already exists")
	ErrBlocked            = errors.New("account blocked")
)

// Registrar stores a new lost or found object and hands out its protocol.
type Registrar interface {
	SubmitObjectRegistration(ctx context.Context, reg models.Registration, images []models.Image) (models.Protocol, error)
}

// Authenticator turns credentials into sessions.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (models.Session, error)
	SignUp(ctx context.Context, req models.SignupRequest) (models.Session, error)
	RequestPasswordReset(ctx context.Context, email string) error
}

type MatchFinder interface {
	FetchMatches(ctx context.Context, userID string) ([]models.ObjectSummary, error)
}

type Messenger interface {
	FetchConversations(ctx context.Context, userID string) ([]models.Conversation, error)
	SendMessage(ctx context.Context, userID, conversationID, text string, att *models.Attachment) (models.Message, error)
	// StartConversation returns the conversation of userID about objectID,
	// creating it when needed.
	StartConversation(ctx context.Context, userID, objectID string) (models.Conversation, error)
}

type Reporter interface {
	SubmitReport(ctx context.Context, objectID, reporterID, reason string) (models.Ack, error)
	ListReports(ctx context.Context) ([]models.Report, error)
	GetReport(ctx context.Context, id string) (models.Report, error)
	ResolveReport(ctx context.Context, id string, action models.ReportAction) error
}

// Catalog is the object listing. ListObjects filters on the store side.
type Catalog interface {
	ListObjects(ctx context.Context, f models.ObjectFilter) ([]models.ObjectSummary, error)
	GetObject(ctx context.Context, id string) (models.Object, error)
	UpdateObject(ctx context.Context, id string, reg models.Registration, images []models.Image) error
	DeleteObject(ctx context.Context, id string) error
	MarkReturned(ctx context.Context, id string) error
}

// Users is the account storage behind Authenticator and the admin directory.
type Users interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SetBlocked(ctx context.Context, id string, blocked bool) error
}

// Store is everything an adapter provides.
type Store interface {
	Registrar
	MatchFinder
	Messenger
	Reporter
	Catalog
	Users
	Stats(ctx context.Context) (models.Stats, error)
	Close() error
}

// Services is what the UI is wired with.
type Services struct {
	Store Store
	Auth  Authenticator
}
