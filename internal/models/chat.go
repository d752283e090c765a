package models

import "time"

type Sender string

const (
	SenderMe    Sender = "me"
	SenderOther Sender = "other"
)

// Attachment references a local file sent along with a message.
type Attachment struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
	MIME      string `json:"mime,omitempty"`
}

type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	SenderID       string      `json:"sender_id"`
	Sender         Sender      `json:"sender"`
	SenderName     string      `json:"sender_name,omitempty"`
	Text           string      `json:"text"`
	Attachment     *Attachment `json:"attachment,omitempty"`
	SentAt         time.Time   `json:"sent_at"`
}

type Conversation struct {
	ID         string    `json:"id"`
	ObjectID   string    `json:"object_id"`
	ObjectName string    `json:"object_name"`
	PeerName   string    `json:"peer_name"`
	Messages   []Message `json:"messages"`
	Unread     int       `json:"unread"`
}

// LastMessage returns the tail of the conversation, if any.
func (c Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}
