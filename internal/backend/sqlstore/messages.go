package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/leeozaka/achados/internal/backend"
	"github.com/leeozaka/achados/internal/models"
	"github.com/leeozaka/achados/internal/observability"
)

func (s *Store) FetchConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT id, object_id, object_name, peer_name, unread
        FROM conversations WHERE user_id = ? ORDER BY id`), userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	var convs []models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ID, &c.ObjectID, &c.ObjectName, &c.PeerName, &c.Unread); err != nil {
			rows.Close()
			return nil, err
		}
		convs = append(convs, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range convs {
		msgs, err := s.messages(ctx, userID, convs[i].ID)
		if err != nil {
			return nil, err
		}
		convs[i].Messages = msgs
	}
	return convs, nil
}

func (s *Store) messages(ctx context.Context, userID, convID string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT id, sender_id, sender_name, text, att_name, att_path, att_size, att_mime, sent_at
        FROM messages WHERE conversation_id = ? ORDER BY sent_at, id`), convID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []models.Message
	for rows.Next() {
		var (
			m    models.Message
			att  models.Attachment
			sent string
		)
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderName, &m.Text, &att.Name, &att.Path, &att.SizeBytes, &att.MIME, &sent); err != nil {
			return nil, err
		}
		m.ConversationID = convID
		m.SentAt = parseStamp(sent)
		m.Sender = models.SenderOther
		if m.SenderID == userID {
			m.Sender = models.SenderMe
		}
		if att.Name != "" || att.Path != "" {
			m.Attachment = &att
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) StartConversation(ctx context.Context, userID, objectID string) (models.Conversation, error) {
	var c models.Conversation
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT id, object_id, object_name, peer_name, unread
        FROM conversations WHERE user_id = ? AND object_id = ?`), userID, objectID)
	err := row.Scan(&c.ID, &c.ObjectID, &c.ObjectName, &c.PeerName, &c.Unread)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("find conversation: %w", err)
	}

	obj, err := s.GetObject(ctx, objectID)
	if err != nil {
		return c, err
	}
	if obj.OwnerID == userID {
		return c, fmt.Errorf("own object %s: %w", objectID, backend.ErrConflict)
	}
	peer := "Usuário"
	if owner, err := s.UserByID(ctx, obj.OwnerID); err == nil {
		peer = owner.Name
	}

	c = models.Conversation{ID: uuid.NewString(), ObjectID: obj.ID, ObjectName: obj.Name, PeerName: peer}
	_, err = s.exec(ctx, s.db, `INSERT INTO conversations (id, object_id, object_name, user_id, peer_name, unread)
        VALUES (?, ?, ?, ?, ?, 0)`, c.ID, c.ObjectID, c.ObjectName, userID, c.PeerName)
	if err != nil {
		return models.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	return c, nil
}

func (s *Store) SendMessage(ctx context.Context, userID, conversationID, text string, att *models.Attachment) (models.Message, error) {
	var owner string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT user_id FROM conversations WHERE id = ?`), conversationID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != userID) {
		return models.Message{}, fmt.Errorf("conversation %s: %w", conversationID, backend.ErrNotFound)
	}
	if err != nil {
		return models.Message{}, fmt.Errorf("find conversation: %w", err)
	}

	m := models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       userID,
		Sender:         models.SenderMe,
		Text:           text,
		SentAt:         s.now(),
	}
	if u, err := s.UserByID(ctx, userID); err == nil {
		m.SenderName = u.Name
	}
	var a models.Attachment
	if att != nil {
		a = *att
		m.Attachment = &a
	}

	_, err = s.exec(ctx, s.db, `INSERT INTO messages (id, conversation_id, sender_id, sender_name, text, att_name, att_path, att_size, att_mime, sent_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, conversationID, userID, m.SenderName, text, a.Name, a.Path, a.SizeBytes, a.MIME, s.stamp(m.SentAt))
	if err != nil {
		observability.LoggerFromContext(ctx).Error("send message failed", "conversation_id", conversationID, "error", err)
		return models.Message{}, fmt.Errorf("send message: %w", err)
	}
	return m, nil
}
