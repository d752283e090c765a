package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leeozaka/achados/internal/models"
)

func TestChannelNames(t *testing.T) {
	ch := Channel("c1")
	assert.Equal(t, "achados:conversation:c1", ch)

	id, ok := ConversationID(ch)
	require.True(t, ok)
	assert.Equal(t, "c1", id)

	_, ok = ConversationID("achados:conversation:")
	assert.False(t, ok)
	_, ok = ConversationID("general-chat")
	assert.False(t, ok)
}

func TestEnvelope(t *testing.T) {
	m := models.Message{
		ID:             "m1",
		ConversationID: "c1",
		SenderID:       "u1",
		Sender:         models.SenderMe,
		Text:           "(Arquivo enviado)",
		Attachment:     &models.Attachment{Name: "nota.pdf", Path: "/tmp/nota.pdf"},
		SentAt:         time.Date(2025, 11, 30, 10, 28, 0, 0, time.UTC),
	}
	payload, err := Encode("origin-a", m)
	require.NoError(t, err)

	env, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, "origin-a", env.Origin)
	assert.Equal(t, m, env.Message)

	_, err = Decode([]byte("{"))
	assert.Error(t, err)
}
