// Package relay fans sent messages out over Redis pub/sub so that every
// client open on the same conversation sees them.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/leeozaka/achados/internal/models"
	"github.com/leeozaka/achados/internal/observability"
)

const channelPrefix = "achados:conversation:"

// Envelope is the JSON payload published for each message.
type Envelope struct {
	Origin  string         `json:"origin"`
	Message models.Message `json:"message"`
}

func Channel(conversationID string) string {
	return channelPrefix + conversationID
}

// ConversationID extracts the id from a channel name.
func ConversationID(channel string) (string, bool) {
	id, ok := strings.CutPrefix(channel, channelPrefix)
	return id, ok && id != ""
}

func Encode(origin string, m models.Message) ([]byte, error) {
	return json.Marshal(Envelope{Origin: origin, Message: m})
}

func Decode(payload []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return env, fmt.Errorf("decode relay payload: %w", err)
	}
	return env, nil
}

type Relay struct {
	client *redis.Client
	origin string
}

// Dial connects to Redis and checks the connection.
func Dial(ctx context.Context, addr string) (*Relay, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis %s: %w", addr, err)
	}
	return &Relay{client: client, origin: uuid.NewString()}, nil
}

func (r *Relay) Close() error {
	return r.client.Close()
}

func (r *Relay) Publish(ctx context.Context, m models.Message) error {
	payload, err := Encode(r.origin, m)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, Channel(m.ConversationID), payload).Err(); err != nil {
		observability.LoggerFromContext(ctx).Error("relay publish failed", "conversation_id", m.ConversationID, "error", err)
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Subscribe delivers messages published by other clients until ctx ends.
// The channel is closed when the subscription stops.
func (r *Relay) Subscribe(ctx context.Context) <-chan models.Message {
	pubsub := r.client.PSubscribe(ctx, channelPrefix+"*")
	out := make(chan models.Message)

	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				env, err := Decode([]byte(msg.Payload))
				if err != nil {
					observability.Logger().Warn("relay payload dropped", "channel", msg.Channel, "error", err)
					continue
				}
				if env.Origin == r.origin {
					continue
				}
				if id, ok := ConversationID(msg.Channel); ok {
					env.Message.ConversationID = id
				}
				select {
				case out <- env.Message:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
