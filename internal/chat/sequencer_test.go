package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeozaka/achados/internal/models"
	"github.com/leeozaka/achados/internal/toast"
)

func seed() []models.Conversation {
	return []models.Conversation{
		{ID: "1", ObjectName: "Carteira", PeerName: "Maria Silva", Messages: []models.Message{
			{ID: "m1", ConversationID: "1", Sender: models.SenderOther, Text: "Olá! Acho que encontrei sua carteira."},
		}},
		{ID: "2", ObjectName: "Mochila", PeerName: "Carlos Pereira"},
		{ID: "3", ObjectName: "Fone", PeerName: "Fernanda Rocha"},
	}
}

type fakeTransport struct {
	calls int
	fail  error
}

func (f *fakeTransport) send(ctx context.Context, id, text string, att *models.Attachment) (models.Message, error) {
	f.calls++
	if f.fail != nil {
		return models.Message{}, f.fail
	}
	return models.Message{
		ID:         fmt.Sprintf("sent-%d", f.calls),
		Text:       text,
		Attachment: att,
		SentAt:     time.Date(2025, 11, 1, 14, 30, 0, 0, time.UTC),
	}, nil
}

func newSequencer(t *testing.T) (*Sequencer, *fakeTransport) {
	t.Helper()
	ft := &fakeTransport{}
	s := NewSequencer(ft.send, toast.NewManager(time.Second))
	s.Load(seed())
	return s, ft
}

func deliver(s *Sequencer, cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	follow := s.Update(cmd())
	if follow == nil {
		return nil
	}
	return follow()
}

func TestSendAppendsAtTail(t *testing.T) {
	s, _ := newSequencer(t)

	cmd := s.Send("1", "  Posso buscar amanhã?  ", nil)
	require.NotNil(t, cmd)
	assert.True(t, s.InFlight("1"))

	out := deliver(s, cmd)
	sent, ok := out.(SentMsg)
	require.True(t, ok)
	assert.Equal(t, "Posso buscar amanhã?", sent.Message.Text)
	assert.Equal(t, models.SenderMe, sent.Message.Sender)
	assert.False(t, s.InFlight("1"))

	conv, _ := s.Conversation("1")
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "m1", conv.Messages[0].ID)
	assert.Equal(t, "sent-1", conv.Messages[1].ID)
}

func TestDoubleSendAppendsOnce(t *testing.T) {
	s, ft := newSequencer(t)

	first := s.Send("1", "oi", nil)
	second := s.Send("1", "oi", nil)
	require.NotNil(t, first)
	assert.Nil(t, second)

	deliver(s, first)
	conv, _ := s.Conversation("1")
	assert.Len(t, conv.Messages, 2)
	assert.Equal(t, 1, ft.calls)
}

func TestSendsToDifferentConversationsDoNotBlock(t *testing.T) {
	s, _ := newSequencer(t)

	a := s.Send("1", "a", nil)
	b := s.Send("2", "b", nil)
	require.NotNil(t, a)
	require.NotNil(t, b)

	deliver(s, b)
	deliver(s, a)
	c1, _ := s.Conversation("1")
	c2, _ := s.Conversation("2")
	assert.Len(t, c1.Messages, 2)
	assert.Len(t, c2.Messages, 1)
}

func TestSendNothing(t *testing.T) {
	s, ft := newSequencer(t)

	assert.Nil(t, s.Send("1", "", nil))
	assert.Nil(t, s.Send("1", "   ", nil))
	assert.Nil(t, s.Send("99", "oi", nil))
	assert.ErrorIs(t, s.Err(), ErrUnknownConversation)
	assert.Equal(t, 0, ft.calls)
}

func TestSendFileOnly(t *testing.T) {
	s, _ := newSequencer(t)
	att := &models.Attachment{Name: "comprovante.pdf", Path: "/tmp/comprovante.pdf"}

	out := deliver(s, s.Send("2", "", att))
	sent := out.(SentMsg)
	assert.Equal(t, FileOnlyText, sent.Message.Text)
	require.NotNil(t, sent.Message.Attachment)
	assert.Equal(t, "comprovante.pdf", sent.Message.Attachment.Name)
}

func TestSendFailureClearsInFlight(t *testing.T) {
	s, ft := newSequencer(t)
	ft.fail = errors.New("timeout")

	cmd := s.Send("1", "oi", nil)
	s.Update(cmd())

	assert.False(t, s.InFlight("1"))
	require.Error(t, s.Err())
	assert.ErrorContains(t, s.Err(), "timeout")
	conv, _ := s.Conversation("1")
	assert.Len(t, conv.Messages, 1)

	ft.fail = nil
	deliver(s, s.Send("1", "oi", nil))
	conv, _ = s.Conversation("1")
	assert.Len(t, conv.Messages, 2)
}

func TestCancelIgnoresLateResult(t *testing.T) {
	s, _ := newSequencer(t)

	cmd := s.Send("1", "oi", nil)
	s.Cancel()
	assert.False(t, s.InFlight("1"))

	assert.Nil(t, deliver(s, cmd))
	conv, _ := s.Conversation("1")
	assert.Len(t, conv.Messages, 1)
}

func TestReceive(t *testing.T) {
	s, _ := newSequencer(t)
	require.NoError(t, s.Open("1"))

	in := models.Message{ID: "r1", ConversationID: "2", Sender: models.SenderOther, Text: "Está na segurança"}
	assert.True(t, s.Receive(in))
	assert.False(t, s.Receive(in))

	c2, _ := s.Conversation("2")
	assert.Len(t, c2.Messages, 1)
	assert.Equal(t, 1, c2.Unread)

	s.Update(ReceivedMsg{Message: models.Message{ID: "r2", ConversationID: "1", Sender: models.SenderOther}})
	c1, _ := s.Conversation("1")
	assert.Equal(t, 0, c1.Unread)
	assert.Len(t, c1.Messages, 2)

	require.NoError(t, s.Open("2"))
	c2, _ = s.Conversation("2")
	assert.Equal(t, 0, c2.Unread)

	assert.ErrorIs(t, s.Open("nope"), ErrUnknownConversation)
	assert.False(t, s.Receive(models.Message{ID: "x", ConversationID: "nope"}))
}

func TestRelayEchoOfOwnMessageIsIgnored(t *testing.T) {
	s, _ := newSequencer(t)
	sent := deliver(s, s.Send("3", "oi", nil)).(SentMsg)

	assert.False(t, s.Receive(sent.Message))
	c3, _ := s.Conversation("3")
	assert.Len(t, c3.Messages, 1)
	assert.Equal(t, 0, c3.Unread)
}

func TestReceiveTagsSenderForTheReader(t *testing.T) {
	alice := NewSequencer((&fakeTransport{}).send, nil).ForUser("u-alice")
	alice.Load(seed())
	bob := NewSequencer((&fakeTransport{}).send, nil).ForUser("u-bob")
	bob.Load(seed())

	sent := deliver(alice, alice.Send("2", "Achei sua mochila", nil)).(SentMsg)
	assert.Equal(t, "u-alice", sent.Message.SenderID)
	assert.Equal(t, models.SenderMe, sent.Message.Sender)

	require.True(t, bob.Receive(sent.Message))
	c2, _ := bob.Conversation("2")
	require.Len(t, c2.Messages, 1)
	assert.Equal(t, models.SenderOther, c2.Messages[0].Sender)
	assert.Equal(t, 1, c2.Unread)

	// a message of bob's own relayed back from another terminal stays his
	own := models.Message{ID: "b1", ConversationID: "3", SenderID: "u-bob", Sender: models.SenderOther}
	require.True(t, bob.Receive(own))
	c3, _ := bob.Conversation("3")
	assert.Equal(t, models.SenderMe, c3.Messages[0].Sender)
	assert.Equal(t, 0, c3.Unread)
}

func TestFilter(t *testing.T) {
	s, _ := newSequencer(t)

	assert.Len(t, s.Filter(""), 3)
	got := s.Filter("fernanda")
	require.Len(t, got, 1)
	assert.Equal(t, "Fone", got[0].ObjectName)
	assert.Len(t, s.Filter("mochila"), 1)
	assert.Empty(t, s.Filter("guarda-chuva"))
}

func TestLoadKeepsOpenWhenStillPresent(t *testing.T) {
	s, _ := newSequencer(t)
	require.NoError(t, s.Open("2"))

	s.Load(seed())
	assert.Equal(t, "2", s.OpenID())

	s.Load(seed()[:1])
	assert.Empty(t, s.OpenID())
}
