package broadcast

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Config holds NATS connection settings for the broadcaster.
type Config struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConfig returns sensible broadcaster defaults.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		SubjectPrefix: "game.events",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// Envelope wraps every broadcast payload with routing metadata.
type Envelope struct {
	Type    EventType       `json:"type"`
	GameID  string          `json:"game_id"`
	Payload json.RawMessage `json:"payload"`
	SentAt  time.Time       `json:"sent_at"`
}

// Publisher fans committed mutations out to viewers over NATS. Strictly
// best-effort and invoked only after the owning transaction commits: a
// publish failure is logged, never rolled back into the write path.
type Publisher struct {
	nc     *nats.Conn
	config Config
}

// NewPublisher connects to NATS with reconnect handlers wired to the logger.
func NewPublisher(cfg Config) (*Publisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &Publisher{nc: nc, config: cfg}, nil
}

// Publish sends one typed payload on game.events.<gameID>. Errors are logged
// and swallowed; the caller's transaction has already committed.
func (p *Publisher) Publish(gameID uuid.UUID, eventType EventType, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to marshal broadcast payload")
		return
	}

	env := Envelope{
		Type:    eventType,
		GameID:  gameID.String(),
		Payload: data,
		SentAt:  time.Now().UTC(),
	}
	msg, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to marshal broadcast envelope")
		return
	}

	subject := fmt.Sprintf("%s.%s", p.config.SubjectPrefix, gameID)
	if err := p.nc.Publish(subject, msg); err != nil {
		log.Error().Err(err).
			Str("subject", subject).
			Str("event_type", string(eventType)).
			Msg("failed to publish broadcast")
	}
}

// Conn exposes the underlying connection so the viewer gateway can
// subscribe on the same link.
func (p *Publisher) Conn() *nats.Conn {
	return p.nc
}

// Close drains the connection.
func (p *Publisher) Close() {
	if err := p.nc.Drain(); err != nil {
		log.Error().Err(err).Msg("failed to drain NATS connection")
	}
}
