package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// VerificationMessage is the payload handed to the delivery worker.
type VerificationMessage struct {
	To        string    `json:"to"`
	From      string    `json:"from"`
	Link      string    `json:"link"`
	Timestamp time.Time `json:"timestamp"`
}

// AMQPMailer publishes mail jobs to a durable queue consumed by an
// external delivery worker.
type AMQPMailer struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
	from     string
	baseURL  string
}

var _ Mailer = (*AMQPMailer)(nil)

// NewAMQPMailer connects to the broker and declares the mail queue.
func NewAMQPMailer(url, exchange, queue, from, baseURL string) (*AMQPMailer, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	m := &AMQPMailer{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		queue:    queue,
		from:     from,
		baseURL:  baseURL,
	}

	if err := m.setup(); err != nil {
		m.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return m, nil
}

func (m *AMQPMailer) setup() error {
	err := m.channel.ExchangeDeclare(
		m.exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = m.channel.QueueDeclare(
		m.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = m.channel.QueueBind(
		m.queue,    // queue name
		m.queue,    // routing key
		m.exchange, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

func (m *AMQPMailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	msg := VerificationMessage{
		To:        to,
		From:      m.from,
		Link:      VerificationLink(m.baseURL, token),
		Timestamp: time.Now(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal mail message: %w", err)
	}

	err = m.channel.PublishWithContext(ctx,
		m.exchange, // exchange
		m.queue,    // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish mail message: %w", err)
	}

	return nil
}

// Close releases the channel and connection.
func (m *AMQPMailer) Close() error {
	if m.channel != nil {
		m.channel.Close()
	}
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}
