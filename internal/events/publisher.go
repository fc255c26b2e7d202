// Package events связывает сверку доступов с брокером: публикация
// событий об истечении в exchange access-events.
package events

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/content-admin/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/content-admin/internal/services/reconciler"
)

// Publisher публикует события истечения доступа в RabbitMQ.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает новый Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishExpired отправляет событие в очередь уведомлений.
func (p *Publisher) PublishExpired(event reconciler.ExpiredEvent) error {
	return rabbitmq.PublishMessage(p.ch, rabbitmq.ExchangeAccessEvents, rabbitmq.RoutingKeyExpired, event)
}
