package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cutekitek/challenge-console/internal/repository/dto"
	"github.com/cutekitek/challenge-console/internal/repository/models"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultQueue = "console-events"

	EventNotification = "notification"
	EventAttempt      = "attempt"

	publishTimeout = 5 * time.Second
)

type RabbitMqPublisherConfig struct {
	Login    string
	Password string
	Host     string
	Port     int
	Queue    string
}

// Event is the message body published to the queue.
type Event struct {
	Type         string            `json:"type"`
	Time         time.Time         `json:"time"`
	Notification *dto.Notification `json:"notification,omitempty"`
	Attempt      *models.Attempt   `json:"attempt,omitempty"`
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher mirrors notification banners and submission outcomes to
// a queue so other front ends can follow a session. Publishing is best
// effort: failures are logged and dropped.
type RabbitMQPublisher struct {
	cfg     RabbitMqPublisherConfig
	conn    *amqp.Connection
	mu      sync.Mutex
	channel channel
	closed  bool
	now     func() time.Time
}

func NewRabbitMQPublisher(cfg RabbitMqPublisherConfig) *RabbitMQPublisher {
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}
	return &RabbitMQPublisher{cfg: cfg, now: time.Now}
}

func (r *RabbitMQPublisher) Start() error {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d", r.cfg.Login, r.cfg.Password, r.cfg.Host, r.cfg.Port)
	conn, err := amqp.Dial(url)
	if err != nil {
		return errors.Wrap(err, "failed to connect to rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "failed to open channel")
	}
	if _, err := ch.QueueDeclare(r.cfg.Queue, false, false, false, false, nil); err != nil {
		conn.Close()
		return errors.Wrap(err, "failed to declare queue")
	}

	r.mu.Lock()
	r.conn = conn
	r.channel = ch
	r.mu.Unlock()

	errChan := conn.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		if amqpErr, ok := <-errChan; ok && amqpErr != nil {
			slog.Warn("rabbitmq connection closed, events will be dropped", "error", amqpErr)
		}
		r.mu.Lock()
		r.channel = nil
		r.mu.Unlock()
	}()
	return nil
}

func (r *RabbitMQPublisher) Notify(n dto.Notification) {
	r.send(&Event{Type: EventNotification, Notification: &n})
}

func (r *RabbitMQPublisher) RecordAttempt(_ context.Context, attempt *models.Attempt) {
	r.send(&Event{Type: EventAttempt, Attempt: attempt})
}

func (r *RabbitMQPublisher) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.channel != nil {
		r.channel.Close()
		r.channel = nil
	}
	if r.conn != nil {
		r.conn.Close()
	}
}

func (r *RabbitMQPublisher) send(event *Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.channel == nil {
		return
	}
	event.Time = r.now().UTC()
	body, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to encode event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	err = r.channel.PublishWithContext(ctx, "", r.cfg.Queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		slog.Error("failed to send event to queue", "type", event.Type, "error", err)
	}
}
