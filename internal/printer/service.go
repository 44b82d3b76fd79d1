// Package printer holds the card logic: build a request, resolve its service, then send or queue it.
package printer

import (
	"context"
	"slices"
	"time"

	"djp.chapter42.de/printerbridge/internal/data"
	perrors "djp.chapter42.de/printerbridge/internal/errors"
	"djp.chapter42.de/printerbridge/internal/logger"
	"djp.chapter42.de/printerbridge/internal/metrics"
	"djp.chapter42.de/printerbridge/internal/processor"
	"djp.chapter42.de/printerbridge/internal/request"
	"djp.chapter42.de/printerbridge/internal/resolver"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultTitle = "Thermal Printer"

// Dispatcher sends one service call to Home Assistant.
type Dispatcher interface {
	CallService(ctx context.Context, domain, service string, serviceData map[string]interface{}) error
}

// StateReader looks up an entity; ok is false when Home Assistant does not know it.
type StateReader interface {
	State(ctx context.Context, entityID string) (state data.EntityState, ok bool, err error)
}

// Result describes what happened to an accepted submission.
type Result struct {
	Service  string `json:"service"`
	Queued   bool   `json:"queued"`
	JobID    string `json:"job_id,omitempty"`
	Position int    `json:"position,omitempty"`
}

type Service struct {
	cfg        data.PrinterConfig
	domain     string
	dispatcher Dispatcher
	states     StateReader
	queue      *processor.Queue
}

func NewService(cfg data.PrinterConfig, domain string, dispatcher Dispatcher, states StateReader) *Service {
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	return &Service{
		cfg:        cfg,
		domain:     domain,
		dispatcher: dispatcher,
		states:     states,
	}
}

// UseQueue switches print submissions to queue mode. Plain actions are always sent directly.
func (s *Service) UseQueue(q *processor.Queue) {
	s.queue = q
}

func (s *Service) Queue() *processor.Queue {
	return s.queue
}

// Submit validates the raw fields for kind and sends or queues the request.
func (s *Service) Submit(ctx context.Context, kind data.Kind, raw map[string]interface{}) (Result, error) {
	req, err := request.Build(kind, raw)
	if err != nil {
		if perrors.Is(err, perrors.ErrCodeValidationFailed) {
			metrics.ValidationFailures.WithLabelValues(string(kind), perrors.Normalize(err).Field).Inc()
			logger.Log.Info("Print request rejected", zap.String("kind", string(kind)), zap.Error(err))
		}
		return Result{}, err
	}

	service, err := resolver.ResolveService(s.cfg.Entity, kind.Action())
	if err != nil {
		return Result{}, err
	}

	if s.queue != nil {
		job := data.QueueJob{
			ID:         uuid.NewString(),
			Service:    service,
			Request:    req,
			EnqueuedAt: time.Now(),
		}
		position, err := s.queue.Enqueue(job)
		if err != nil {
			return Result{}, err
		}
		return Result{Service: service, Queued: true, JobID: job.ID, Position: position}, nil
	}

	if err := s.call(ctx, service, kind.Action(), req.Data); err != nil {
		return Result{}, err
	}
	return Result{Service: service}, nil
}

// Action sends one of the payload-free printer actions directly.
func (s *Service) Action(ctx context.Context, action string) (Result, error) {
	if !slices.Contains(data.PlainActions, action) {
		return Result{}, perrors.NewUnknownActionError(action)
	}
	service, err := resolver.ResolveService(s.cfg.Entity, action)
	if err != nil {
		return Result{}, err
	}
	if err := s.call(ctx, service, action, nil); err != nil {
		return Result{}, err
	}
	return Result{Service: service}, nil
}

// DispatchJob is the queue's dispatch function.
func (s *Service) DispatchJob(ctx context.Context, job data.QueueJob) error {
	return s.call(ctx, job.Service, job.Request.Kind.Action(), job.Request.Data)
}

// ClearQueue drops pending jobs; 0 in direct mode.
func (s *Service) ClearQueue() int {
	if s.queue == nil {
		return 0
	}
	return s.queue.Clear()
}

func (s *Service) call(ctx context.Context, service, action string, payload map[string]interface{}) error {
	logger.Log.Debug("Calling service:", zap.String("domain", s.domain), zap.String("service", service), zap.Any("data", payload))

	start := time.Now()
	err := s.dispatcher.CallService(ctx, s.domain, service, payload)
	metrics.ServiceCallDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ServiceCallsTotal.WithLabelValues(action, "error").Inc()
		logger.Log.Error("Error while calling service:", zap.String("domain", s.domain), zap.String("service", service), zap.Error(err))
		return perrors.NewDispatchError(s.domain+"."+service, err)
	}
	metrics.ServiceCallsTotal.WithLabelValues(action, "success").Inc()
	return nil
}

// QueueSnapshot reports the queue, or an empty idle one in direct mode.
func (s *Service) QueueSnapshot() processor.Snapshot {
	if s.queue == nil {
		return processor.Snapshot{State: processor.StateIdle, Jobs: []processor.JobRecord{}}
	}
	return s.queue.Snapshot()
}
