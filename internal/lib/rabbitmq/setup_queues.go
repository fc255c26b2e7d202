package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

const (
	// ExchangeAccessEvents — exchange событий доступа.
	ExchangeAccessEvents = "access-events"
	// QueueAccessExpired — очередь событий об истёкших доступах.
	QueueAccessExpired = "access-events.expired"
	// RoutingKeyExpired — ключ маршрутизации событий истечения.
	RoutingKeyExpired = "expired"
)

// SetupChannel открывает канал и объявляет exchange и очередь
// событий истечения доступа.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		ExchangeAccessEvents,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	_, err = ch.QueueDeclare(
		QueueAccessExpired,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = ch.QueueBind(QueueAccessExpired, RoutingKeyExpired, ExchangeAccessEvents, false, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ch, nil
}
