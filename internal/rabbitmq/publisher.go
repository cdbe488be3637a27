package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// InvitationEvent — полезная нагрузка события о созданном приглашении.
type InvitationEvent struct {
	InvitationID   string `json:"invitation_id"`
	ClubID         string `json:"club_id"`
	InvitedBy      string `json:"invited_by"`
	InvitedUserUID string `json:"invited_user_uid,omitempty"`
	InvitedEmail   string `json:"invited_email,omitempty"`
}

// Publisher публикует события клубов в канал RabbitMQ.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishInvitationCreated публикует событие invitation.created в club-events.
func (p *Publisher) PublishInvitationCreated(event InvitationEvent) error {
	return publishMessage(p.ch, "club-events", "invitation.created", event)
}

// publishMessage публикует произвольное сообщение в RabbitMQ.
func publishMessage(ch *amqp.Channel, exchange, routingKey string, message any) error {
	const op = "rabbitmq.publishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
