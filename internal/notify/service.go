package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// channel is the Redis pub/sub channel all instances share.
const channel = "medchain:notifications"

// Service fans message notifications out across instances through Redis
// pub/sub, so a publish on any instance reaches whichever instance holds the
// target wallet's connection.
type Service struct {
	hub *Hub
	rdb *redis.Client
	log zerolog.Logger
}

func NewService(hub *Hub, rdb *redis.Client, log zerolog.Logger) *Service {
	return &Service{hub: hub, rdb: rdb, log: log}
}

// Publish sends a message notification to the shared channel.
func (s *Service) Publish(ctx context.Context, m MessageNotification) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("notify publish: %w", err)
	}
	if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("notify publish: %w", err)
	}
	return nil
}

// Run subscribes to the shared channel and delivers inbound pushes to the
// local hub until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	sub := s.rdb.Subscribe(ctx, channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				s.log.Warn().Msg("notification subscription closed")
				return
			}
			var m MessageNotification
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				s.log.Warn().Err(err).Msg("bad notification payload, skipped")
				continue
			}
			s.hub.Push(m.To, m.ToNotification())
		}
	}
}
