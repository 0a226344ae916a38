package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cutekitek/challenge-console/internal/repository/dto"
	"github.com/cutekitek/challenge-console/internal/repository/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, msg)
	return args.Error(0)
}

func (m *mockChannel) Close() error {
	m.Called()
	return nil
}

func newTestPublisher(ch channel) *RabbitMQPublisher {
	p := NewRabbitMQPublisher(RabbitMqPublisherConfig{})
	p.channel = ch
	p.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return p
}

func TestNotifyPublishesEvent(t *testing.T) {
	ch := &mockChannel{}
	var published amqp.Publishing
	ch.On("PublishWithContext", "", DefaultQueue, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(2).(amqp.Publishing) }).
		Return(nil).Once()
	p := newTestPublisher(ch)

	p.Notify(dto.Notification{Level: dto.LevelSuccess, Message: "Correct! You earned 3 points!"})

	ch.AssertExpectations(t)
	assert.Equal(t, "application/json", published.ContentType)
	var event Event
	require.NoError(t, json.Unmarshal(published.Body, &event))
	assert.Equal(t, EventNotification, event.Type)
	assert.Equal(t, "Correct! You earned 3 points!", event.Notification.Message)
	assert.Equal(t, dto.LevelSuccess, event.Notification.Level)
	assert.True(t, event.Time.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestRecordAttemptPublishesEvent(t *testing.T) {
	ch := &mockChannel{}
	var published amqp.Publishing
	ch.On("PublishWithContext", "", DefaultQueue, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(2).(amqp.Publishing) }).
		Return(nil).Once()
	p := newTestPublisher(ch)

	p.RecordAttempt(context.Background(), &models.Attempt{ChallengeId: 8, Status: models.SubmissionStatusIncorrect})

	ch.AssertExpectations(t)
	var event Event
	require.NoError(t, json.Unmarshal(published.Body, &event))
	assert.Equal(t, EventAttempt, event.Type)
	assert.Equal(t, int64(8), event.Attempt.ChallengeId)
	assert.Nil(t, event.Notification)
}

func TestPublishFailureIsSwallowed(t *testing.T) {
	ch := &mockChannel{}
	ch.On("PublishWithContext", "", DefaultQueue, mock.Anything).Return(errors.New("channel closed")).Once()
	p := newTestPublisher(ch)

	assert.NotPanics(t, func() { p.Notify(dto.Notification{Level: dto.LevelInfo, Message: "x"}) })
	ch.AssertExpectations(t)
}

func TestClosedPublisherDropsEvents(t *testing.T) {
	ch := &mockChannel{}
	ch.On("Close").Return().Once()
	p := newTestPublisher(ch)

	p.Close()
	p.Notify(dto.Notification{Level: dto.LevelInfo, Message: "x"})

	ch.AssertExpectations(t)
	ch.AssertNotCalled(t, "PublishWithContext", mock.Anything, mock.Anything, mock.Anything)
}

func TestCustomQueue(t *testing.T) {
	p := NewRabbitMQPublisher(RabbitMqPublisherConfig{Queue: "week-3"})
	assert.Equal(t, "week-3", p.cfg.Queue)
}
