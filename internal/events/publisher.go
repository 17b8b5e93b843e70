// Package events publishes committed ledger transactions to RabbitMQ.
// Publishing is fire-and-forget: a broker failure is logged and never fails
// the ledger operation that triggered it.
package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/numanubhani/finance2/internal/models"
)

const publishTimeout = 5 * time.Second

type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	log      *zap.SugaredLogger
}

// Connect dials the broker and declares a durable topic exchange.
func Connect(url, exchange string, log *zap.SugaredLogger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange, log: log}, nil
}

// TransactionCreated publishes one committed transaction, keyed by type
// (e.g. "transaction.deposit").
func (p *Publisher) TransactionCreated(ctx context.Context, tx *models.Transaction) {
	body, err := json.Marshal(tx)
	if err != nil {
		p.log.Warnw("marshal transaction event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, p.exchange, "transaction."+string(tx.Type), false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		MessageId:   tx.Reference,
		Body:        body,
	})
	if err != nil {
		p.log.Warnw("publish transaction event", "reference", tx.Reference, "error", err)
	}
}

func (p *Publisher) Close() {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
