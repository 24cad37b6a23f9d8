package observability

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/aretw0/talebox/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the player collectors.
type Metrics struct {
	StageVisits        *prometheus.CounterVec
	BookSelections     *prometheus.CounterVec
	NavigationFailures *prometheus.CounterVec
	Inputs             *prometheus.CounterVec
	CurrentBook        *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StageVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "talebox_stage_visits_total",
				Help: "Total number of stages presented",
			},
			[]string{"book"},
		),
		BookSelections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "talebox_book_selections_total",
				Help: "Total number of times a book was selected on the library wheel",
			},
			[]string{"book"},
		),
		NavigationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "talebox_navigation_failures_total",
				Help: "Transitions that led nowhere and reset the book to its cover",
			},
			[]string{"book", "stage"},
		),
		Inputs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "talebox_inputs_total",
				Help: "Events dequeued by the controller",
			},
			[]string{"key", "completion"},
		),
		CurrentBook: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "talebox_current_book",
				Help: "1 for the selected book",
			},
			[]string{"book"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.StageVisits, m.BookSelections, m.NavigationFailures, m.Inputs, m.CurrentBook)
	}
	return m
}

// Hooks returns lifecycle hooks that log each event on logger and record it.
func (m *Metrics) Hooks(logger *slog.Logger) domain.LifecycleHooks {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return domain.LifecycleHooks{
		OnStageEnter: func(ctx context.Context, e *domain.StageEvent) {
			logger.Debug("stage_enter", "book", e.BookID, "stage", e.StageID, "root", e.Root)
			m.StageVisits.WithLabelValues(e.BookID).Inc()
		},
		OnBookSelect: func(ctx context.Context, e *domain.StageEvent) {
			logger.Info("book_select", "book", e.BookID)
			m.BookSelections.WithLabelValues(e.BookID).Inc()
			m.CurrentBook.Reset()
			m.CurrentBook.WithLabelValues(e.BookID).Set(1)
		},
		OnNavigationFailure: func(ctx context.Context, e *domain.StageEvent) {
			logger.Warn("navigation_failure", "book", e.BookID, "stage", e.StageID)
			m.NavigationFailures.WithLabelValues(e.BookID, e.StageID).Inc()
		},
		OnInput: func(ctx context.Context, e *domain.InputEvent) {
			logger.Debug("input", "key", e.Key, "completion", e.Completion)
			m.Inputs.WithLabelValues(e.Key.String(), strconv.FormatBool(e.Completion)).Inc()
		},
	}
}
