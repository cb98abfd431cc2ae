package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Consumer subscribes to game event subjects and feeds the connection
// manager's broadcast channel. One consumer serves all games; routing is
// keyed off the subject's trailing token.
type Consumer struct {
	conn          *nats.Conn
	manager       *ConnectionManager
	subjectPrefix string
	sub           *nats.Subscription
}

// NewConsumer creates a consumer bound to an existing NATS connection.
func NewConsumer(conn *nats.Conn, manager *ConnectionManager, subjectPrefix string) *Consumer {
	return &Consumer{
		conn:          conn,
		manager:       manager,
		subjectPrefix: subjectPrefix,
	}
}

// Subscribe starts consuming envelopes for all games.
func (c *Consumer) Subscribe() error {
	subject := fmt.Sprintf("%s.>", c.subjectPrefix)
	sub, err := c.conn.Subscribe(subject, c.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	c.sub = sub
	log.Info().Str("subject", subject).Msg("gateway consumer subscribed")
	return nil
}

// Unsubscribe stops consumption. Safe to call when never subscribed.
func (c *Consumer) Unsubscribe() error {
	if c.sub == nil {
		return nil
	}
	return c.sub.Unsubscribe()
}

func (c *Consumer) handleMessage(msg *nats.Msg) {
	gameID, err := c.gameIDFromSubject(msg.Subject)
	if err != nil {
		log.Warn().Err(err).Str("subject", msg.Subject).Msg("dropping message with unroutable subject")
		return
	}

	// Validate the payload is a well-formed envelope before fanning out.
	if !json.Valid(msg.Data) {
		log.Warn().Str("subject", msg.Subject).Msg("dropping non-JSON message")
		return
	}

	c.manager.BroadcastToGame(gameID, msg.Data)
}

func (c *Consumer) gameIDFromSubject(subject string) (uuid.UUID, error) {
	rest, ok := strings.CutPrefix(subject, c.subjectPrefix+".")
	if !ok {
		return uuid.Nil, fmt.Errorf("subject %q lacks prefix %q", subject, c.subjectPrefix)
	}
	return uuid.Parse(rest)
}
