package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leeozaka/achados/internal/backend"
	"github.com/leeozaka/achados/internal/models"
	"github.com/leeozaka/achados/internal/observability"
)

// FirstProtocol is handed to the first object registered after the seed data.
const FirstProtocol = 12346

type Options struct {
	// Latency delays every call, SendDelay delays SendMessage.
	Latency   time.Duration
	SendDelay time.Duration
	// HashPassword hashes the seeded demo password. Without it seeded
	// accounts cannot log in.
	HashPassword func(string) (string, error)
	Now          func() time.Time
	// Empty skips the seed data.
	Empty bool
}

type conversation struct {
	models.Conversation
	userID string
}

// Store keeps everything in process memory.
type Store struct {
	mu sync.RWMutex

	opts     Options
	now      func() time.Time
	protocol int64

	objects       []*models.Object // newest first
	users         []*models.User
	conversations []*conversation
	reports       []*models.Report
}

var _ backend.Store = (*Store)(nil)

func New(opts Options) (*Store, error) {
	s := &Store{opts: opts, now: opts.Now, protocol: FirstProtocol - 1}
	if s.now == nil {
		s.now = time.Now
	}
	if !opts.Empty {
		if err := s.seed(); err != nil {
			return nil, fmt.Errorf("seed memory store: %w", err)
		}
	}
	return s, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) SubmitObjectRegistration(ctx context.Context, reg models.Registration, images []models.Image) (models.Protocol, error) {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.protocol++
	now := s.now()
	obj := &models.Object{
		ObjectSummary: models.ObjectSummary{
			ID:       uuid.NewString(),
			Protocol: models.FormatProtocol(s.protocol),
			Status:   models.StatusOpen,
		},
		CreatedAt: now,
	}
	applyRegistration(obj, reg, images)
	obj.Timeline = []models.TimelineEvent{{Event: registeredEvent(reg.Kind), At: now}}
	s.objects = append([]*models.Object{obj}, s.objects...)

	observability.LoggerFromContext(ctx).Info("object registered",
		"protocol", obj.Protocol, "kind", obj.Kind, "images", len(obj.Images))
	return obj.Protocol, nil
}

func registeredEvent(k models.ObjectKind) string {
	if k == models.KindLost {
		return "Registrado como objeto perdido"
	}
	return "Registrado como objeto encontrado"
}

func applyRegistration(obj *models.Object, reg models.Registration, images []models.Image) {
	if reg.Kind != "" {
		obj.Kind = reg.Kind
	}
	if reg.OwnerID != "" {
		obj.OwnerID = reg.OwnerID
	}
	obj.Name = reg.Name
	obj.Category = reg.Category
	obj.Location = reg.Location
	obj.Date = reg.Date
	obj.LocationDetail = reg.LocationDetail
	obj.Time = reg.Time
	obj.Description = reg.Description
	obj.CurrentLocation = reg.CurrentLocation
	obj.AllowMessages = reg.AllowMessages
	obj.EnableAlert = reg.EnableAlert
	obj.VisitedPlaces = append([]string(nil), reg.VisitedPlaces...)
	if images != nil {
		obj.Images = append([]models.Image(nil), images...)
	}
}

func (s *Store) ListObjects(ctx context.Context, f models.ObjectFilter) ([]models.ObjectSummary, error) {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ObjectSummary
	for _, o := range s.objects {
		if !f.Match(o.ObjectSummary) {
			continue
		}
		out = append(out, o.ObjectSummary)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) findObject(id string) (int, *models.Object) {
	for i, o := range s.objects {
		if o.ID == id {
			return i, o
		}
	}
	return -1, nil
}

func (s *Store) GetObject(ctx context.Context, id string) (models.Object, error) {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return models.Object{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, o := s.findObject(id)
	if o == nil {
		return models.Object{}, fmt.Errorf("object %s: %w", id, backend.ErrNotFound)
	}
	cp := *o
	cp.Images = append([]models.Image(nil), o.Images...)
	cp.Timeline = append([]models.TimelineEvent(nil), o.Timeline...)
	cp.VisitedPlaces = append([]string(nil), o.VisitedPlaces...)
	return cp, nil
}

func (s *Store) UpdateObject(ctx context.Context, id string, reg models.Registration, images []models.Image) error {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, o := s.findObject(id)
	if o == nil {
		return fmt.Errorf("object %s: %w", id, backend.ErrNotFound)
	}
	applyRegistration(o, reg, images)
	o.Timeline = append(o.Timeline, models.TimelineEvent{Event: "Registro atualizado", At: s.now()})
	return nil
}

func (s *Store) DeleteObject(ctx context.Context, id string) error {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteObject(id)
}

func (s *Store) deleteObject(id string) error {
	i, o := s.findObject(id)
	if o == nil {
		return fmt.Errorf("object %s: %w", id, backend.ErrNotFound)
	}
	s.objects = append(s.objects[:i], s.objects[i+1:]...)
	return nil
}

func (s *Store) MarkReturned(ctx context.Context, id string) error {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, o := s.findObject(id)
	if o == nil {
		return fmt.Errorf("object %s: %w", id, backend.ErrNotFound)
	}
	o.Status = models.StatusReturned
	o.Timeline = append(o.Timeline, models.TimelineEvent{Event: "Objeto devolvido ao dono", At: s.now()})
	return nil
}

func (s *Store) FetchMatches(ctx context.Context, userID string) ([]models.ObjectSummary, error) {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var own, others []models.ObjectSummary
	for _, o := range s.objects {
		if o.OwnerID == userID {
			own = append(own, o.ObjectSummary)
		} else {
			others = append(others, o.ObjectSummary)
		}
	}
	return backend.Matches(own, others), nil
}

func (s *Store) FetchConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Conversation
	for _, c := range s.conversations {
		if c.userID != userID {
			continue
		}
		conv := c.Conversation
		conv.Messages = append([]models.Message(nil), c.Messages...)
		out = append(out, conv)
	}
	return out, nil
}

func (s *Store) StartConversation(ctx context.Context, userID, objectID string) (models.Conversation, error) {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return models.Conversation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.conversations {
		if c.userID == userID && c.ObjectID == objectID {
			return c.Conversation, nil
		}
	}
	_, o := s.findObject(objectID)
	if o == nil {
		return models.Conversation{}, fmt.Errorf("object %s: %w", objectID, backend.ErrNotFound)
	}
	if o.OwnerID == userID {
		return models.Conversation{}, fmt.Errorf("own object %s: %w", objectID, backend.ErrConflict)
	}
	peer := "Usuário"
	if u := s.findUser(o.OwnerID); u != nil {
		peer = u.Name
	}
	c := &conversation{
		Conversation: models.Conversation{
			ID:         uuid.NewString(),
			ObjectID:   o.ID,
			ObjectName: o.Name,
			PeerName:   peer,
		},
		userID: userID,
	}
	s.conversations = append([]*conversation{c}, s.conversations...)
	return c.Conversation, nil
}

func (s *Store) SendMessage(ctx context.Context, userID, conversationID, text string, att *models.Attachment) (models.Message, error) {
	if err := s.wait(ctx, s.opts.SendDelay); err != nil {
		return models.Message{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var conv *conversation
	for _, c := range s.conversations {
		if c.ID == conversationID && c.userID == userID {
			conv = c
			break
		}
	}
	if conv == nil {
		return models.Message{}, fmt.Errorf("conversation %s: %w", conversationID, backend.ErrNotFound)
	}

	m := models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       userID,
		Sender:         models.SenderMe,
		Text:           text,
		SentAt:         s.now(),
	}
	if u := s.findUser(userID); u != nil {
		m.SenderName = u.Name
	}
	if att != nil {
		a := *att
		m.Attachment = &a
	}
	conv.Messages = append(conv.Messages, m)

	observability.LoggerFromContext(ctx).Info("message sent", "conversation_id", conversationID)
	return m, nil
}

func (s *Store) SubmitReport(ctx context.Context, objectID, reporterID, reason string) (models.Ack, error) {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return models.Ack{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, o := s.findObject(objectID)
	if o == nil {
		return models.Ack{}, fmt.Errorf("object %s: %w", objectID, backend.ErrNotFound)
	}
	r := &models.Report{
		ID:         uuid.NewString(),
		ObjectID:   objectID,
		ObjectName: o.Name,
		ReporterID: reporterID,
		Reason:     strings.TrimSpace(reason),
		Status:     models.ReportPending,
		CreatedAt:  s.now(),
	}
	if u := s.findUser(reporterID); u != nil {
		r.ReporterName = u.Name
	}
	s.reports = append(s.reports, r)

	observability.LoggerFromContext(ctx).Info("report submitted", "report_id", r.ID, "object_id", objectID)
	return models.Ack{ReportID: r.ID, ReceivedAt: r.CreatedAt}, nil
}

func (s *Store) ListReports(ctx context.Context) ([]models.Report, error) {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, *r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) findReport(id string) *models.Report {
	for _, r := range s.reports {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *Store) GetReport(ctx context.Context, id string) (models.Report, error) {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return models.Report{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r := s.findReport(id)
	if r == nil {
		return models.Report{}, fmt.Errorf("report %s: %w", id, backend.ErrNotFound)
	}
	return *r, nil
}

// ResolveReport applies the admin decision: keep leaves the object,
// remove deletes it and block also blocks the account that posted it.
func (s *Store) ResolveReport(ctx context.Context, id string, action models.ReportAction) error {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.findReport(id)
	if r == nil {
		return fmt.Errorf("report %s: %w", id, backend.ErrNotFound)
	}

	switch action {
	case models.ActionKeep:
		r.Status = models.ReportKept
	case models.ActionRemove, models.ActionBlock:
		_, o := s.findObject(r.ObjectID)
		if o != nil {
			if action == models.ActionBlock {
				if u := s.findUser(o.OwnerID); u != nil {
					u.Blocked = true
				}
			}
			_ = s.deleteObject(o.ID)
		}
		r.Status = models.ReportRemoved
		if action == models.ActionBlock {
			r.Status = models.ReportBlocked
		}
	default:
		return fmt.Errorf("unknown report action %q", action)
	}

	observability.LoggerFromContext(ctx).Info("report resolved", "report_id", id, "action", action)
	return nil
}

func (s *Store) findUser(id string) *models.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range s.users {
		if existing.Email == email {
			return models.User{}, fmt.Errorf("user %s: %w", email, backend.ErrConflict)
		}
	}
	u.Email = email
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	stored := u
	s.users = append(s.users, &stored)
	return u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return models.User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %s: %w", email, backend.ErrNotFound)
}

func (s *Store) UserByID(ctx context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.findUser(id)
	if u == nil {
		return models.User{}, fmt.Errorf("user %s: %w", id, backend.ErrNotFound)
	}
	return *u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *Store) SetBlocked(ctx context.Context, id string, blocked bool) error {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUser(id)
	if u == nil {
		return fmt.Errorf("user %s: %w", id, backend.ErrNotFound)
	}
	u.Blocked = blocked
	return nil
}

func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	if err := s.wait(ctx, s.opts.Latency); err != nil {
		return models.Stats{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	st := models.Stats{TotalObjects: len(s.objects), Users: len(s.users)}
	for _, o := range s.objects {
		switch {
		case o.Status == models.StatusReturned:
			st.Returned++
		case o.Kind == models.KindLost:
			st.Lost++
		default:
			st.Found++
		}
	}
	for _, r := range s.reports {
		if r.Status == models.ReportPending {
			st.PendingReports++
		}
	}
	return st, nil
}
