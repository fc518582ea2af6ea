package produce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	MediaExchange = "media.exchange"

	// ObjectDeleteQueue carries storage keys whose objects must be removed, e.g. orphans of
	// abandoned uploads found by the reconciliation sweep.
	ObjectDeleteQueue      = "media.object_delete"
	ObjectDeleteRoutingKey = "media.object_delete"
)

type DeleteObjectMessage struct {
	StorageKey string `json:"storage_key"`
	Reason     string `json:"reason"`
	Timestamp  int64  `json:"timestamp"`
}

type MediaProduceService struct {
	channel *amqp.Channel
}

func InitMediaProduceService(channel *amqp.Channel) *MediaProduceService {
	err := channel.ExchangeDeclare(
		MediaExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Media exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		ObjectDeleteQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare ObjectDelete queue: " + err.Error())
	}

	err = channel.QueueBind(
		ObjectDeleteQueue,
		ObjectDeleteRoutingKey,
		MediaExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind ObjectDelete queue: " + err.Error())
	}

	return &MediaProduceService{
		channel: channel,
	}
}

func (s *MediaProduceService) EnqueueObjectDelete(ctx context.Context, storageKey, reason string) error {
	if storageKey == "" {
		return fmt.Errorf("storageKey cannot be empty")
	}

	body, err := json.Marshal(DeleteObjectMessage{
		StorageKey: storageKey,
		Reason:     reason,
		Timestamp:  time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal delete object message: %w", err)
	}

	err = s.channel.PublishWithContext(
		ctx,
		MediaExchange,
		ObjectDeleteRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish delete object message: %w", err)
	}
	return nil
}
