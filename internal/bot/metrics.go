package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics структура для метрик Prometheus
type Metrics struct {
	UpdatesProcessed     prometheus.Counter
	CommandsProcessed    prometheus.Counter
	CommandDuration      *prometheus.HistogramVec
	WizardCompletions    prometheus.Counter
	EstimationsTotal     *prometheus.CounterVec
	EstimationDuration   prometheus.Histogram
	LedgerWriteErrors    prometheus.Counter
	ErrorsTotal          prometheus.Counter
	UpdateProcessingTime prometheus.Histogram
}

// NewMetrics создает новые метрики
func NewMetrics() *Metrics {
	return &Metrics{
		UpdatesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "food_daily_bot_updates_processed_total",
			Help: "Total number of processed updates",
		}),

		CommandsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "food_daily_bot_commands_processed_total",
			Help: "Total number of processed commands",
		}),

		CommandDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "food_daily_bot_command_duration_seconds",
			Help:    "Duration of command processing",
			Buckets: prometheus.DefBuckets,
		}, []string{"command"}),

		WizardCompletions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "food_daily_bot_wizard_completions_total",
			Help: "Total number of completed profile wizards",
		}),

		EstimationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "food_daily_bot_estimations_total",
			Help: "Total number of food estimations by status",
		}, []string{"status"}),

		EstimationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "food_daily_bot_estimation_duration_seconds",
			Help:    "Duration of estimation service calls",
			Buckets: prometheus.DefBuckets,
		}),

		LedgerWriteErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "food_daily_bot_ledger_write_errors_total",
			Help: "Total number of failed daily ledger writes",
		}),

		ErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "food_daily_bot_errors_total",
			Help: "Total number of errors",
		}),

		UpdateProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "food_daily_bot_update_processing_time_seconds",
			Help:    "Time spent processing updates",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
