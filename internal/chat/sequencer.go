// Package chat keeps the conversations of the current user and serializes
// outgoing messages per conversation.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leeozaka/achados/internal/models"
	"github.com/leeozaka/achados/internal/toast"
)

// FileOnlyText is the body of a message that only carries an attachment.
const FileOnlyText = "(Arquivo enviado)"

const sendFailedMessage = "Não foi possível enviar a mensagem. Tente novamente."

var ErrUnknownConversation = errors.New("unknown conversation")

// SendFunc delivers one message and returns it as stored by the backend.
type SendFunc func(ctx context.Context, conversationID, text string, att *models.Attachment) (models.Message, error)

// SentMsg is emitted after a message was appended, so the screen can clear
// its compose field and the relay can publish it.
type SentMsg struct {
	Message models.Message
}

// ReceivedMsg carries a message that arrived from another participant.
type ReceivedMsg struct {
	Message models.Message
}

type sendResultMsg struct {
	token          uint64
	conversationID string
	message        models.Message
	err            error
}

var lastToken atomic.Uint64

type flight struct {
	token  uint64
	cancel context.CancelFunc
}

// Sequencer owns the ordered message lists. Like the form engine it is
// only touched from the Bubble Tea event loop.
type Sequencer struct {
	send   SendFunc
	toasts *toast.Manager
	ctx    context.Context
	user   string

	convs    []models.Conversation
	index    map[string]int
	open     string
	inFlight map[string]flight
	lastErr  error
}

func NewSequencer(send SendFunc, toasts *toast.Manager) *Sequencer {
	if toasts == nil {
		toasts = toast.NewManager(toast.DefaultTTL)
	}
	return &Sequencer{
		send:     send,
		toasts:   toasts,
		ctx:      context.Background(),
		index:    make(map[string]int),
		inFlight: make(map[string]flight),
	}
}

// WithContext sets the parent context of every send.
func (s *Sequencer) WithContext(ctx context.Context) *Sequencer {
	s.ctx = ctx
	return s
}

// ForUser sets the id of the logged-in user. Received messages are tagged
// as mine or other's by comparing their SenderID with it.
func (s *Sequencer) ForUser(userID string) *Sequencer {
	s.user = userID
	return s
}

// Load replaces the known conversations, e.g. after fetchConversations.
// Sends still in flight are dropped.
func (s *Sequencer) Load(convs []models.Conversation) {
	s.Cancel()
	s.convs = make([]models.Conversation, len(convs))
	s.index = make(map[string]int, len(convs))
	for i, c := range convs {
		c.Messages = append([]models.Message(nil), c.Messages...)
		s.convs[i] = c
		s.index[c.ID] = i
	}
	if _, ok := s.index[s.open]; !ok {
		s.open = ""
	}
}

func (s *Sequencer) Conversations() []models.Conversation {
	out := make([]models.Conversation, len(s.convs))
	copy(out, s.convs)
	return out
}

func (s *Sequencer) Conversation(id string) (models.Conversation, bool) {
	i, ok := s.index[id]
	if !ok {
		return models.Conversation{}, false
	}
	return s.convs[i], true
}

// Filter returns the conversations whose object or peer name contains q.
func (s *Sequencer) Filter(q string) []models.Conversation {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return s.Conversations()
	}
	var out []models.Conversation
	for _, c := range s.convs {
		if strings.Contains(strings.ToLower(c.ObjectName), q) || strings.Contains(strings.ToLower(c.PeerName), q) {
			out = append(out, c)
		}
	}
	return out
}

// Open selects a conversation and marks it read.
func (s *Sequencer) Open(id string) error {
	i, ok := s.index[id]
	if !ok {
		return ErrUnknownConversation
	}
	s.open = id
	s.convs[i].Unread = 0
	return nil
}

func (s *Sequencer) OpenID() string { return s.open }

func (s *Sequencer) Err() error { return s.lastErr }

func (s *Sequencer) InFlight(id string) bool {
	_, ok := s.inFlight[id]
	return ok
}

// Send starts delivering a message. It returns nil when there is nothing
// to send, the conversation is unknown or a send to it is already in flight.
func (s *Sequencer) Send(id, text string, att *models.Attachment) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" && att == nil {
		return nil
	}
	if _, ok := s.index[id]; !ok {
		s.lastErr = ErrUnknownConversation
		return nil
	}
	if s.InFlight(id) {
		return nil
	}
	if text == "" {
		text = FileOnlyText
	}

	token := lastToken.Add(1)
	ctx, cancel := context.WithCancel(s.ctx)
	s.inFlight[id] = flight{token: token, cancel: cancel}
	s.lastErr = nil

	send := s.send
	return func() tea.Msg {
		defer cancel()
		if send == nil {
			return sendResultMsg{token: token, conversationID: id, err: errors.New("no transport")}
		}
		m, err := send(ctx, id, text, att)
		return sendResultMsg{token: token, conversationID: id, message: m, err: err}
	}
}

// Cancel abandons every send in flight. Their results are ignored.
func (s *Sequencer) Cancel() {
	for id, f := range s.inFlight {
		f.cancel()
		delete(s.inFlight, id)
	}
}

func (s *Sequencer) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case sendResultMsg:
		f, ok := s.inFlight[msg.conversationID]
		if !ok || f.token != msg.token {
			return nil
		}
		delete(s.inFlight, msg.conversationID)
		if msg.err != nil {
			s.lastErr = fmt.Errorf("send to %s: %w", msg.conversationID, msg.err)
			return s.toasts.Show(toast.Error, sendFailedMessage)
		}
		m := msg.message
		m.ConversationID = msg.conversationID
		if m.SenderID == "" {
			m.SenderID = s.user
		}
		m.Sender = models.SenderMe
		s.appendTail(m)
		return func() tea.Msg { return SentMsg{Message: m} }

	case ReceivedMsg:
		s.Receive(msg.Message)
	}
	return nil
}

// Receive appends a message from another participant. Messages already
// present (by id) are ignored, which makes relay echoes harmless. The
// sender tag of the payload is the publisher's view, so it is derived
// again from SenderID.
func (s *Sequencer) Receive(m models.Message) bool {
	i, ok := s.index[m.ConversationID]
	if !ok {
		return false
	}
	if s.has(i, m.ID) {
		return false
	}
	if m.SenderID != "" {
		m.Sender = models.SenderOther
		if m.SenderID == s.user {
			m.Sender = models.SenderMe
		}
	}
	s.convs[i].Messages = append(s.convs[i].Messages, m)
	if m.ConversationID != s.open && m.Sender != models.SenderMe {
		s.convs[i].Unread++
	}
	return true
}

func (s *Sequencer) appendTail(m models.Message) {
	i := s.index[m.ConversationID]
	if !s.has(i, m.ID) {
		s.convs[i].Messages = append(s.convs[i].Messages, m)
	}
}

func (s *Sequencer) has(i int, id string) bool {
	if id == "" {
		return false
	}
	for _, m := range s.convs[i].Messages {
		if m.ID == id {
			return true
		}
	}
	return false
}
