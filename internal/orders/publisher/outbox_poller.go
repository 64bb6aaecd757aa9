package publisher

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	paymentdomain "github.com/reda57493110/pixelpad-backend/internal/payment/domain"
	"github.com/reda57493110/pixelpad-backend/internal/payment/repository"
	r "github.com/reda57493110/pixelpad-backend/internal/orders/repository"
)

// A session still pending this long with no linked order belongs to a
// submission that crashed before compensation could run.
const stalePendingAge = 15 * time.Minute

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type OutboxPoller struct {
	eventTick    time.Duration
	recoveryTick time.Duration
	repo         r.OrderRepository
	sessions     repository.RepoInterface
	writer       messageWriter
}

func NewOutboxPoller(repo r.OrderRepository, sessions repository.RepoInterface, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{time.Second, time.Minute, repo, sessions, w}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	eventTicker := time.NewTicker(p.eventTick)
	recoveryTicker := time.NewTicker(p.recoveryTick)
	defer eventTicker.Stop()
	defer recoveryTicker.Stop()
	for {
		select {
		case <-eventTicker.C:
			p.processUnpublishedEvents(ctx)
		case <-recoveryTicker.C:
			p.sweepStalePendingSessions(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.GetUnprocessedEvents(ctx, 100)
	if err != nil {
		log.Printf("failed to fetch events %v", err)
		return
	}

	for _, event := range events {
		errPublish := p.publishToKafka(ctx, event)
		if errPublish != nil {
			log.Printf("failed to publish event id = %v with error %v", event.ID, errPublish)
			continue
		}

		errMark := p.repo.MarkEventAsProcessed(ctx, event.ID)
		if errMark != nil {
			log.Printf("failed to mark event as processed id = %v with error %v", event.ID, errMark)
			continue
		}
	}
}

// sweepStalePendingSessions resolves the orphaned-pending invariant: a
// session created by a submission that died before either linking an order or
// marking itself failed gets marked failed here.
func (p *OutboxPoller) sweepStalePendingSessions(ctx context.Context) {
	cutoff := time.Now().Add(-stalePendingAge)
	sessions, err := p.sessions.ListStalePending(ctx, cutoff, 100)
	if err != nil {
		log.Printf("failed to list stale pending sessions: %v", err)
		return
	}

	for _, session := range sessions {
		log.Printf("sweeping stale pending session: %v", session.SessionID)

		failed := paymentdomain.SessionStatusFailed
		err := p.sessions.UpdateSession(ctx, session.SessionID, paymentdomain.SessionPatch{
			Status: &failed,
			Metadata: map[string]any{
				"failure_reason": "reconciliation sweep: no order linked",
				"swept_at":       time.Now().UTC().Format(time.RFC3339),
			},
		})
		if err != nil {
			log.Printf("failed to mark session %v failed: %v", session.SessionID, err)
			continue
		}

		log.Printf("session resolved: %v", session.SessionID)
	}
}

func (p *OutboxPoller) publishToKafka(ctx context.Context, event *r.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.AggregateID), // order id for ordering
		Value: event.Payload,             // Already JSON from database
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	err := p.writer.WriteMessages(ctx, msg)
	if err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}
