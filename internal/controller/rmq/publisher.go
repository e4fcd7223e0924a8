package rmq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"ailetic/config"
	"ailetic/entity"
	"ailetic/pkg/logger"
	"ailetic/pkg/rabbitmq"
)

const traceName = "rmq"

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// EventPublisher announces finished compute requests on a topic exchange.
type EventPublisher struct {
	amqpChan channel
	conn     io.Closer
	exchange string
	l        logger.Interface
}

func NewEventPublisher(cfg config.RMQ, l logger.Interface) (*EventPublisher, error) {
	mqConn, err := rabbitmq.NewRabbitMQConn(cfg.URL)
	if err != nil {
		return nil, err
	}
	amqpChan, err := mqConn.Channel()
	if err != nil {
		mqConn.Close()
		return nil, errors.Wrap(err, "amqpConn.Channel")
	}

	p, err := newEventPublisher(amqpChan, cfg.Exchange, l)
	if err != nil {
		mqConn.Close()
		return nil, err
	}
	p.conn = mqConn
	return p, nil
}

func newEventPublisher(ch channel, exchange string, l logger.Interface) (*EventPublisher, error) {
	p := &EventPublisher{amqpChan: ch, exchange: exchange, l: l}
	if err := p.setupExchange(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *EventPublisher) setupExchange() error {
	p.l.Info("Declaring exchange: %s", p.exchange)
	err := p.amqpChan.ExchangeDeclare(
		p.exchange,
		exchangeKind,
		exchangeDurable,
		exchangeAutoDelete,
		exchangeInternal,
		exchangeNoWait,
		nil,
	)
	if err != nil {
		return errors.Wrap(err, "Error ch.ExchangeDeclare")
	}
	return nil
}

// RoutingKey is compute.<kind>.<status>.
func RoutingKey(rec *entity.ComputeRecord) string {
	return fmt.Sprintf("%s.%s.%s", routingKeyPrefix, rec.Kind, rec.Status)
}

func (p *EventPublisher) Record(ctx context.Context, rec *entity.ComputeRecord, _ []byte) error {
	_, span := otel.Tracer(traceName).Start(ctx, "PublishComputeEvent")
	defer span.End()

	key := RoutingKey(rec)
	span.SetAttributes(attribute.String("routing_key", key))

	body, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "marshal compute record")
	}

	return p.Publish(key, contentTypeJSON, rec.RequestID, body)
}

func (p *EventPublisher) Publish(key, contentType, corrID string, body []byte) error {
	p.l.Debug("Publishing message Exchange: %s, RoutingKey: %s", p.exchange, key)

	if err := p.amqpChan.Publish(
		p.exchange,
		key,
		publishMandatory,
		publishImmediate,
		amqp.Publishing{
			ContentType:   contentType,
			DeliveryMode:  amqp.Persistent,
			MessageId:     uuid.New().String(),
			Timestamp:     time.Now(),
			CorrelationId: corrID,
			Body:          body,
		},
	); err != nil {
		return errors.Wrap(err, "ch.Publish")
	}

	return nil
}

// Close closes the channel and, when owned, the connection.
func (p *EventPublisher) Close() error {
	if err := p.amqpChan.Close(); err != nil {
		p.l.Error(fmt.Errorf("rmq - EventPublisher - Close: %w", err))
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
