package service

import (
	"context"
	"sync"
	"time"

	"github.com/rudrodip/whatyouwant/internal/domain"
	"github.com/rudrodip/whatyouwant/internal/logger"
)

// TelemetryStore persists request telemetry.
type TelemetryStore interface {
	AppendLog(ctx context.Context, entry *domain.RequestLog) error
	IncrementCounter(ctx context.Context) error
}

// RequestEvent is one recorded meme request.
type RequestEvent struct {
	Query      string
	OutputType string
	Output     string
	ClientIP   string
	Referrer   string
}

// TelemetrySink writes the request counter and log off the response
// path. Events go through a buffered channel into a single worker
// goroutine; a full queue drops the event and a failed write is logged
// and swallowed. Nothing here may fail or delay the user-visible result.
type TelemetrySink struct {
	store  TelemetryStore
	events chan RequestEvent
	done   chan struct{}
	closed sync.Once
	log    *logger.Logger
}

// writeTimeout bounds each store write so a stuck datastore cannot wedge
// the worker forever.
const writeTimeout = 5 * time.Second

// NewTelemetrySink creates a sink and starts its worker.
func NewTelemetrySink(store TelemetryStore, queueSize int, log *logger.Logger) *TelemetrySink {
	if queueSize <= 0 {
		queueSize = 256
	}
	if log == nil {
		log = logger.GetDefault()
	}

	s := &TelemetrySink{
		store:  store,
		events: make(chan RequestEvent, queueSize),
		done:   make(chan struct{}),
		log:    log.WithField(logger.FieldComponent, "telemetry"),
	}
	go s.run()
	return s
}

// Record enqueues an event without blocking. Events that do not fit are
// dropped; telemetry is advisory.
func (s *TelemetrySink) Record(ev RequestEvent) {
	select {
	case s.events <- ev:
	default:
		s.log.WithField(logger.FieldQuery, ev.Query).Warn("telemetry queue full, dropping event")
	}
}

// Close stops accepting events and drains the queue, waiting until the
// worker finishes or ctx expires.
func (s *TelemetrySink) Close(ctx context.Context) error {
	s.closed.Do(func() { close(s.events) })

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *TelemetrySink) run() {
	defer close(s.done)

	for ev := range s.events {
		s.write(ev)
	}
}

func (s *TelemetrySink) write(ev RequestEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := s.store.IncrementCounter(ctx); err != nil {
		s.log.WithError(err).Warn("failed to increment request counter")
	}

	entry := &domain.RequestLog{
		Query:      ev.Query,
		OutputType: ev.OutputType,
		Output:     ev.Output,
		ClientIP:   ev.ClientIP,
		Referrer:   ev.Referrer,
	}
	if err := s.store.AppendLog(ctx, entry); err != nil {
		s.log.WithError(err).Warn("failed to append request log")
	}
}
