package printer

import (
	"context"
	"strings"

	"djp.chapter42.de/printerbridge/internal/data"
	"djp.chapter42.de/printerbridge/internal/logger"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusUnknown = "unknown"

	PaperOK  = "ok"
	PaperOut = "out"
)

// Status reads the printer entity and the configured sensors. Read failures are logged
// and reported as unknown; the status itself never fails.
func (s *Service) Status(ctx context.Context) data.PrinterStatus {
	status := data.PrinterStatus{
		Title:  s.cfg.Title,
		Entity: s.cfg.Entity,
		Online: StatusUnknown,
		Paper:  StatusUnknown,
	}

	if st, ok := s.readState(ctx, s.cfg.Entity); ok {
		status.State = st.State
		if st.State == "on" {
			status.Online = StatusOnline
		} else {
			status.Online = StatusOffline
		}
	}

	if s.cfg.PaperSensor != "" {
		if st, ok := s.readState(ctx, s.cfg.PaperSensor); ok && known(st.State) {
			if st.State == "on" {
				status.Paper = PaperOK
			} else {
				status.Paper = PaperOut
			}
		}
	}

	if s.cfg.UsageSensor != "" {
		if st, ok := s.readState(ctx, s.cfg.UsageSensor); ok {
			if usage, err := cast.ToFloat64E(strings.TrimSpace(st.State)); err == nil && known(st.State) {
				status.Usage = &usage
			}
		}
	}

	if len(s.cfg.Counters) > 0 {
		status.Counters = make(map[string]string, len(s.cfg.Counters))
		for name, entityID := range s.cfg.Counters {
			value := StatusUnknown
			if st, ok := s.readState(ctx, entityID); ok {
				value = st.State
			}
			status.Counters[name] = value
		}
	}

	return status
}

func (s *Service) readState(ctx context.Context, entityID string) (data.EntityState, bool) {
	if s.states == nil {
		return data.EntityState{}, false
	}
	st, ok, err := s.states.State(ctx, entityID)
	if err != nil {
		logger.Log.Warn("Error while reading entity state:", zap.String("entity", entityID), zap.Error(err))
		return data.EntityState{}, false
	}
	return st, ok
}

// known filters the placeholder states Home Assistant reports for sensors without a value.
func known(state string) bool {
	return state != "unavailable" && state != "unknown" && state != ""
}
