package events

import (
	"context"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type reservationConfirmedEvent struct {
	ReservationID string `json:"reservation_id"`
	Kind          string `json:"kind"`
	OwnerID       string `json:"owner_id"`
	ResourceID    string `json:"resource_id,omitempty"`
	SlotDate      string `json:"slot_date,omitempty"`
	SlotTime      string `json:"slot_time,omitempty"`
	Amount        int64  `json:"amount"`
	ConfirmedAt   string `json:"confirmed_at"`
}

type rabbitMQPublisher struct {
	Channel  *amqp091.Channel
	Exchange string
	Log      *zap.Logger
}

func NewRabbitMQPublisher(rabbitMQConnection *amqp091.Connection, exchange string, logger *zap.Logger) (contracts.EventPublisher, error) {
	channel, err := rabbitMQConnection.Channel()
	if err != nil {
		return nil, err
	}

	err = channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	if err != nil {
		return nil, err
	}

	return &rabbitMQPublisher{
		Channel:  channel,
		Exchange: exchange,
		Log:      logger,
	}, nil
}

func (p *rabbitMQPublisher) PublishReservationConfirmed(ctx context.Context, reservation *models.Reservation) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	event := reservationConfirmedEvent{
		ReservationID: reservation.ID,
		Kind:          reservation.Kind,
		OwnerID:       reservation.OwnerID,
		ResourceID:    reservation.ResourceID,
		SlotDate:      reservation.SlotDate,
		SlotTime:      reservation.SlotTime,
		Amount:        reservation.Amount,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
	}

	err = p.Channel.PublishWithContext(ctx, p.Exchange, constvars.RabbitMQReservationConfirmedRoutingKey, false, false, message)
	if err != nil {
		p.Log.Error("rabbitMQPublisher.PublishReservationConfirmed error publishing message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingReservationIDKey, reservation.ID),
			zap.Error(err),
		)
		return exceptions.ErrRabbitMQPublishMessage(err, constvars.RabbitMQReservationConfirmedRoutingKey)
	}

	p.Log.Info("rabbitMQPublisher.PublishReservationConfirmed succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingReservationIDKey, reservation.ID),
	)
	return nil
}
