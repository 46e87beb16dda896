package revalidate

import (
	"context"
	"time"

	"companion-app/frontend/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const publishTimeout = 2 * time.Second

// Redis evicts locally and publishes the path so every other instance
// evicts too.
type Redis struct {
	client  *redis.Client
	channel string
	local   *Local
	log     *logger.Logger
}

// NewRedis creates a fan-out revalidator on channel.
func NewRedis(client *redis.Client, channel string, local *Local, log *logger.Logger) *Redis {
	return &Redis{client: client, channel: channel, local: local, log: log}
}

func (r *Redis) Revalidate(ctx context.Context, path string) {
	if path == "" {
		return
	}
	r.local.Revalidate(ctx, path)

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := r.client.Publish(pubCtx, r.channel, path).Err(); err != nil {
		logger.FromContext(ctx, r.log).LogError(err, "Failed to publish revalidation",
			"path", path,
			"channel", r.channel,
		)
	}
}

// Listen evicts pages named on the channel until ctx is done.
func (r *Redis) Listen(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	r.log.Info("Listening for revalidations", "channel", r.channel)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.handle(msg)
		}
	}
}

func (r *Redis) handle(msg *redis.Message) {
	if r.local.pages != nil && msg.Payload != "" {
		r.local.pages.Invalidate(msg.Payload)
	}
}
