package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/rhydle-waitlist/internal/usecase"
)

type MockSweeper struct {
	mock.Mock
}

func (m *MockSweeper) Execute(ctx context.Context) (*usecase.SweepResult, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.(*usecase.SweepResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeAcker registra ack/nack na ordem em que acontecem.
type fakeAcker struct {
	mu     sync.Mutex
	events *[]string
	ackErr error
}

func (a *fakeAcker) record(ev string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	*a.events = append(*a.events, ev)
}

func (a *fakeAcker) Ack(tag uint64, multiple bool) error {
	a.record("ack")
	return a.ackErr
}

func (a *fakeAcker) Nack(tag uint64, multiple, requeue bool) error {
	if requeue {
		a.record("nack-requeue")
	} else {
		a.record("nack")
	}
	return nil
}

func (a *fakeAcker) Reject(tag uint64, requeue bool) error {
	a.record("reject")
	return nil
}

func payload(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(SweepRequestPayload{RequestID: "req-1", Origin: "MANUAL", RequestedAt: time.Now()})
	require.NoError(t, err)
	return body
}

func delivery(acker amqp.Acknowledger, body []byte) amqp.Delivery {
	return amqp.Delivery{Acknowledger: acker, DeliveryTag: 1, Body: body}
}

func TestHandleAcksBeforeSweep(t *testing.T) {
	var events []string
	acker := &fakeAcker{events: &events}
	sweeper := new(MockSweeper)
	sweeper.On("Execute", mock.Anything).
		Return(&usecase.SweepResult{Attempted: 2, Sent: 2}, nil).
		Run(func(mock.Arguments) { acker.record("sweep") })
	w := NewWorker(nil, sweeper, zap.NewNop())

	w.handle(context.Background(), delivery(acker, payload(t)))

	assert.Equal(t, []string{"ack", "sweep"}, events)
}

func TestHandleSweepFailureStaysAcked(t *testing.T) {
	var events []string
	acker := &fakeAcker{events: &events}
	sweeper := new(MockSweeper)
	sweeper.On("Execute", mock.Anything).Return(nil, errors.New("store down"))
	w := NewWorker(nil, sweeper, zap.NewNop())

	w.handle(context.Background(), delivery(acker, payload(t)))

	assert.Equal(t, []string{"ack"}, events)
}

func TestHandleMalformedGoesToDLQ(t *testing.T) {
	var events []string
	acker := &fakeAcker{events: &events}
	sweeper := new(MockSweeper)
	w := NewWorker(nil, sweeper, zap.NewNop())

	w.handle(context.Background(), delivery(acker, []byte("{nope")))

	assert.Equal(t, []string{"nack"}, events)
	sweeper.AssertNotCalled(t, "Execute", mock.Anything)
}

func TestHandleSkipsSweepWhenAckFails(t *testing.T) {
	var events []string
	acker := &fakeAcker{events: &events, ackErr: amqp.ErrClosed}
	sweeper := new(MockSweeper)
	w := NewWorker(nil, sweeper, zap.NewNop())

	w.handle(context.Background(), delivery(acker, payload(t)))

	assert.Equal(t, []string{"ack"}, events)
	sweeper.AssertNotCalled(t, "Execute", mock.Anything)
}

func TestConsumeReportsBrokerClose(t *testing.T) {
	w := NewWorker(nil, new(MockSweeper), zap.NewNop())
	msgs := make(chan amqp.Delivery)
	close(msgs)

	err := w.consume(context.Background(), msgs)

	assert.ErrorIs(t, err, ErrConsumerClosed)
}

func TestConsumeStopsOnContext(t *testing.T) {
	w := NewWorker(nil, new(MockSweeper), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, w.consume(ctx, make(chan amqp.Delivery)))
}

func TestConsumeHandlesDeliveries(t *testing.T) {
	var events []string
	acker := &fakeAcker{events: &events}
	sweeper := new(MockSweeper)
	sweeper.On("Execute", mock.Anything).Return(&usecase.SweepResult{}, nil)
	w := NewWorker(nil, sweeper, zap.NewNop())

	msgs := make(chan amqp.Delivery, 2)
	msgs <- delivery(acker, payload(t))
	msgs <- delivery(acker, payload(t))
	close(msgs)

	err := w.consume(context.Background(), msgs)

	assert.ErrorIs(t, err, ErrConsumerClosed)
	assert.Equal(t, []string{"ack", "ack"}, events)
	sweeper.AssertNumberOfCalls(t, "Execute", 2)
}

func TestRunSweepInProgressIsSkipped(t *testing.T) {
	sweeper := new(MockSweeper)
	sweeper.On("Execute", mock.Anything).Return(nil, usecase.ErrSweepInProgress)
	w := NewWorker(nil, sweeper, zap.NewNop())

	assert.NoError(t, w.run(context.Background(), SweepRequestPayload{RequestID: "req-1"}))
}

func TestRunSweepError(t *testing.T) {
	sweeper := new(MockSweeper)
	boom := errors.New("store down")
	sweeper.On("Execute", mock.Anything).Return(nil, boom)
	w := NewWorker(nil, sweeper, zap.NewNop())

	assert.ErrorIs(t, w.run(context.Background(), SweepRequestPayload{}), boom)
}

func TestDecodeRequest(t *testing.T) {
	p, err := decodeRequest(payload(t))
	require.NoError(t, err)
	assert.Equal(t, "req-1", p.RequestID)

	_, err = decodeRequest([]byte("[]"))
	assert.ErrorIs(t, err, errMalformed)
}
