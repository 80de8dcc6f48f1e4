package service

import (
	"context"
	"fmt"
	"time"

	"kiosk-settlement/internal/core/domain"
	"kiosk-settlement/internal/core/ports"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
)

const (
	EventInvoiceSettled = "INVOICE_SETTLED"

	eventPublishTimeout = 10 * time.Second
)

// SettlementEvent is the message published for every committed settlement.
type SettlementEvent struct {
	EventType       string  `json:"event_type"`
	InvoicePublicID string  `json:"invoice_public_id"`
	Method          string  `json:"method"`
	Amount          string  `json:"amount"`
	PaidReference   string  `json:"paid_reference"`
	DeviceID        string  `json:"device_id,omitempty"`
	DurationSec     int     `json:"duration_sec,omitempty"`
	CommandID       *int64  `json:"command_id,omitempty"`
	PayerID         *string `json:"payer_id,omitempty"`
	Timestamp       int64   `json:"timestamp"`
}

// EventService implements ports.SettlementNotifier. Publishing happens on an
// ants worker pool so a slow broker never holds up the payer's response.
type EventService struct {
	publisher ports.EventPublisher
	pool      *ants.Pool
	log       zerolog.Logger
}

// EventServiceConfig sizes the publishing pool.
type EventServiceConfig struct {
	Workers int
}

// NewEventService creates the notifier. A nil publisher turns it into a log-only sink.
func NewEventService(publisher ports.EventPublisher, cfg EventServiceConfig, log zerolog.Logger) (*EventService, error) {
	size := cfg.Workers
	if size <= 0 {
		size = 1
	}
	pool, err := ants.NewPool(size, ants.WithNonblocking(false))
	if err != nil {
		return nil, fmt.Errorf("creating event pool: %w", err)
	}
	return &EventService{
		publisher: publisher,
		pool:      pool,
		log:       log,
	}, nil
}

// NotifySettled hands the event to the pool and returns immediately.
func (s *EventService) NotifySettled(ctx context.Context, receipt *domain.SettlementReceipt, invoice *domain.Invoice) {
	event := SettlementEvent{
		EventType:       EventInvoiceSettled,
		InvoicePublicID: receipt.InvoicePublicID,
		Method:          string(receipt.Method),
		Amount:          domain.FormatMoney(receipt.Amount),
		PaidReference:   receipt.PaidReference,
		DeviceID:        invoice.DeviceID,
		DurationSec:     invoice.DurationSec,
		CommandID:       receipt.CommandID,
		Timestamp:       receipt.PaidAt.Unix(),
	}

	s.log.Info().
		Str("invoice_id", event.InvoicePublicID).
		Str("method", event.Method).
		Str("amount", event.Amount).
		Msg("settlement committed")

	if s.publisher == nil {
		return
	}

	detached := context.WithoutCancel(ctx)
	err := s.pool.Submit(func() {
		pubCtx, cancel := context.WithTimeout(detached, eventPublishTimeout)
		defer cancel()
		if err := s.publisher.Publish(pubCtx, event.InvoicePublicID, event); err != nil {
			s.log.Error().Err(err).Str("invoice_id", event.InvoicePublicID).Msg("event: publish failed")
			return
		}
		s.log.Debug().Str("invoice_id", event.InvoicePublicID).Msg("event: published")
	})
	if err != nil {
		s.log.Error().Err(err).Str("invoice_id", event.InvoicePublicID).Msg("event: failed to submit to worker pool")
	}
}

// Running returns the number of busy workers.
func (s *EventService) Running() int {
	return s.pool.Running()
}

// Shutdown waits up to timeout for in-flight publishes, then releases the pool.
func (s *EventService) Shutdown(timeout time.Duration) error {
	s.log.Info().Int("running_workers", s.pool.Running()).Msg("shutting down event pool")
	return s.pool.ReleaseTimeout(timeout)
}
