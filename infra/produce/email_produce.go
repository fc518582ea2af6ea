package produce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EmailExchange               = "email_exchange"
	EmailNotificationRoutingKey = "email.notification"
)

type EmailMessage struct {
	Type          string            `json:"type"`
	Recipient     string            `json:"recipient"`
	RecipientName string            `json:"recipientName,omitempty"`
	Subject       string            `json:"subject"`
	Content       string            `json:"content"`
	ReplyTo       string            `json:"replyTo,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// EmailService publishes to the mail service's exchange. Delivery happens outside this process.
type EmailService struct {
	channel *amqp.Channel
}

func InitEmailService(channel *amqp.Channel) *EmailService {
	err := channel.ExchangeDeclare(
		EmailExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Email exchange: " + err.Error())
	}

	return &EmailService{
		channel: channel,
	}
}

func (s *EmailService) SendEmailNotification(ctx context.Context, message EmailMessage) error {
	if message.Recipient == "" {
		return fmt.Errorf("recipient cannot be empty")
	}
	message.Type = "notification"
	return s.publishEmail(ctx, EmailNotificationRoutingKey, message)
}

func (s *EmailService) publishEmail(ctx context.Context, routingKey string, message EmailMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal email message: %w", err)
	}

	err = s.channel.PublishWithContext(
		ctx,
		EmailExchange, // exchange
		routingKey,    // routing key
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)

	if err != nil {
		return fmt.Errorf("failed to publish email message: %w", err)
	}

	return nil
}
