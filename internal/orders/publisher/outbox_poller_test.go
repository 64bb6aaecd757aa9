package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	odomain "github.com/reda57493110/pixelpad-backend/internal/orders/domain"
	r "github.com/reda57493110/pixelpad-backend/internal/orders/repository"
	pdomain "github.com/reda57493110/pixelpad-backend/internal/payment/domain"
	prepo "github.com/reda57493110/pixelpad-backend/internal/payment/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOrderRepo struct {
	events       []*r.OutboxEvent
	getErr       error
	processedIDs []int64
}

func (m *mockOrderRepo) CreateOrder(context.Context, *odomain.Order) error { return nil }
func (m *mockOrderRepo) GetOrderByID(context.Context, string) (*odomain.Order, error) {
	return nil, r.ErrOrderNotFound
}
func (m *mockOrderRepo) ListOrdersByIdentity(context.Context, string) ([]*odomain.Order, error) {
	return nil, nil
}
func (m *mockOrderRepo) GetUnprocessedEvents(context.Context, int) ([]*r.OutboxEvent, error) {
	return m.events, m.getErr
}
func (m *mockOrderRepo) MarkEventAsProcessed(_ context.Context, id int64) error {
	m.processedIDs = append(m.processedIDs, id)
	return nil
}
func (m *mockOrderRepo) Close() error                       { return nil }
func (m *mockOrderRepo) RunMigrations(*r.Credentials) error { return nil }

type mockSessionRepo struct {
	stale      []*pdomain.PaymentSession
	listErr    error
	patches    map[string]pdomain.SessionPatch
	updateErr  error
	updateCnts int
}

func (m *mockSessionRepo) CreateSession(context.Context, *pdomain.PaymentSession) error { return nil }
func (m *mockSessionRepo) GetSession(context.Context, string) (*pdomain.PaymentSession, error) {
	return nil, prepo.ErrSessionNotFound
}
func (m *mockSessionRepo) UpdateSession(_ context.Context, sessionID string, patch pdomain.SessionPatch) error {
	m.updateCnts++
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.patches == nil {
		m.patches = make(map[string]pdomain.SessionPatch)
	}
	m.patches[sessionID] = patch
	return nil
}
func (m *mockSessionRepo) ListStalePending(context.Context, time.Time, int) ([]*pdomain.PaymentSession, error) {
	return m.stale, m.listErr
}
func (m *mockSessionRepo) Close() error                           { return nil }
func (m *mockSessionRepo) RunMigrations(*prepo.Credentials) error { return nil }

type mockWriter struct {
	messages []kafka.Message
	err      error
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func newTestPoller(repo *mockOrderRepo, sessions *mockSessionRepo, writer *mockWriter) *OutboxPoller {
	return &OutboxPoller{
		eventTick:    time.Millisecond,
		recoveryTick: time.Millisecond,
		repo:         repo,
		sessions:     sessions,
		writer:       writer,
	}
}

func TestProcessUnpublishedEvents_PublishesAndMarks(t *testing.T) {
	repo := &mockOrderRepo{events: []*r.OutboxEvent{
		{ID: 1, EventID: "e1", EventType: "order_created", AggregateID: "ORD-1", Payload: []byte(`{"order_id":"ORD-1"}`)},
		{ID: 2, EventID: "e2", EventType: "order_created", AggregateID: "ORD-2", Payload: []byte(`{"order_id":"ORD-2"}`)},
	}}
	writer := &mockWriter{}
	p := newTestPoller(repo, &mockSessionRepo{}, writer)

	p.processUnpublishedEvents(context.Background())

	require.Len(t, writer.messages, 2)
	assert.Equal(t, []byte("ORD-1"), writer.messages[0].Key)
	assert.Equal(t, "order_created", string(writer.messages[0].Headers[0].Value))
	assert.Equal(t, []int64{1, 2}, repo.processedIDs)
}

func TestProcessUnpublishedEvents_PublishFailureLeavesEventUnprocessed(t *testing.T) {
	repo := &mockOrderRepo{events: []*r.OutboxEvent{
		{ID: 1, EventID: "e1", EventType: "order_created", AggregateID: "ORD-1", Payload: []byte(`{}`)},
	}}
	writer := &mockWriter{err: errors.New("broker down")}
	p := newTestPoller(repo, &mockSessionRepo{}, writer)

	p.processUnpublishedEvents(context.Background())

	assert.Empty(t, repo.processedIDs)
}

func TestSweepStalePendingSessions_MarksFailed(t *testing.T) {
	sessions := &mockSessionRepo{stale: []*pdomain.PaymentSession{
		{SessionID: "s1", Status: pdomain.SessionStatusPending},
	}}
	p := newTestPoller(&mockOrderRepo{}, sessions, &mockWriter{})

	p.sweepStalePendingSessions(context.Background())

	patch, ok := sessions.patches["s1"]
	require.True(t, ok)
	require.NotNil(t, patch.Status)
	assert.Equal(t, pdomain.SessionStatusFailed, *patch.Status)
	assert.Contains(t, patch.Metadata, "failure_reason")
}

func TestSweepStalePendingSessions_NothingStale(t *testing.T) {
	sessions := &mockSessionRepo{}
	p := newTestPoller(&mockOrderRepo{}, sessions, &mockWriter{})

	p.sweepStalePendingSessions(context.Background())

	assert.Zero(t, sessions.updateCnts)
}
