package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/charcoal-cms/infra"
	"github.com/tnqbao/charcoal-cms/infra/produce"
)

type ObjectDeleter interface {
	DeleteObject(ctx context.Context, key string) error
}

// KeyReferences reports whether a confirmed media row points at a storage key.
type KeyReferences interface {
	ExistsByStorageKey(ctx context.Context, key string) (bool, error)
}

type ObjectDeleteConsumer struct {
	channel    *amqp.Channel
	storage    ObjectDeleter
	references KeyReferences
	logger     *infra.LoggerClient
	maxRetries int
	backoff    time.Duration
}

func NewObjectDeleteConsumer(channel *amqp.Channel, storage ObjectDeleter, references KeyReferences, logger *infra.LoggerClient) *ObjectDeleteConsumer {
	return &ObjectDeleteConsumer{
		channel:    channel,
		storage:    storage,
		references: references,
		logger:     logger,
		maxRetries: 3,
		backoff:    2 * time.Second,
	}
}

func (c *ObjectDeleteConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.ObjectDeleteQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register object delete consumer: %w", err)
	}

	c.logger.InfoWithContextf(ctx, "[Object Delete Consumer] Started listening on queue: %s", produce.ObjectDeleteQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.InfoWithContextf(ctx, "[Object Delete Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.WarningWithContextf(ctx, "[Object Delete Consumer] Channel closed")
					return
				}
				c.handle(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *ObjectDeleteConsumer) handle(ctx context.Context, msg amqp.Delivery) {
	var payload produce.DeleteObjectMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil || payload.StorageKey == "" {
		c.logger.ErrorWithContextf(ctx, err, "[Object Delete Consumer] Dropping malformed message: %s", string(msg.Body))
		_ = msg.Nack(false, false)
		return
	}

	// A late confirm may have claimed the key after the sweep queued it.
	referenced, err := c.references.ExistsByStorageKey(ctx, payload.StorageKey)
	if err != nil {
		c.logger.ErrorWithContextf(ctx, err, "[Object Delete Consumer] Failed to check %s, requeueing", payload.StorageKey)
		_ = msg.Nack(false, true)
		return
	}
	if referenced {
		c.logger.WarningWithContextf(ctx, "[Object Delete Consumer] Keeping %s, it is referenced by a media row", payload.StorageKey)
		_ = msg.Ack(false)
		return
	}

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		err = c.storage.DeleteObject(ctx, payload.StorageKey)
		if err == nil {
			c.logger.InfoWithContextf(ctx, "[Object Delete Consumer] Deleted %s (%s)", payload.StorageKey, payload.Reason)
			_ = msg.Ack(false)
			return
		}

		c.logger.ErrorWithContextf(ctx, err, "[Object Delete Consumer] Attempt %d/%d failed for %s", attempt, c.maxRetries, payload.StorageKey)
		if attempt < c.maxRetries {
			time.Sleep(time.Duration(attempt) * c.backoff)
		}
	}

	c.logger.ErrorWithContextf(ctx, err, "[Object Delete Consumer] Failed after %d attempts, requeueing %s", c.maxRetries, payload.StorageKey)
	_ = msg.Nack(false, true)
}
