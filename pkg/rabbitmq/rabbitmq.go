package rabbitmq

import (
	"time"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

const (
	defaultAttempts = 5
	defaultBackoff  = 2 * time.Second
)

// NewRabbitMQConn dials url, retrying while the broker comes up.
func NewRabbitMQConn(url string) (*amqp.Connection, error) {
	return dial(url, defaultAttempts, defaultBackoff)
}

func dial(url string, attempts int, backoff time.Duration) (*amqp.Connection, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	for i := 0; i < attempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		if i < attempts-1 {
			time.Sleep(backoff)
		}
	}
	return nil, errors.Wrapf(err, "amqp.Dial after %d attempts", attempts)
}
