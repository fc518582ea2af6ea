package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	EmailService *EmailService
	MediaService *MediaProduceService
}

var produceInstance *Produce

func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	emailService := InitEmailService(channel)
	if emailService == nil {
		panic("Failed to initialize Email service")
	}

	mediaService := InitMediaProduceService(channel)
	if mediaService == nil {
		panic("Failed to initialize Media produce service")
	}

	produceInstance = &Produce{
		EmailService: emailService,
		MediaService: mediaService,
	}

	return produceInstance
}
