package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sabuzz_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sabuzz_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ExternalFetchTotal counts outbound news/weather fetches by provider and outcome.
	ExternalFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sabuzz_external_fetch_total",
		Help: "Total number of third-party content fetches by provider and outcome",
	}, []string{"provider", "outcome"})

	// ModerationActionsTotal counts moderation decisions by subject and action.
	ModerationActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sabuzz_moderation_actions_total",
		Help: "Total number of moderation decisions by subject and action",
	}, []string{"subject", "action"})

	// NotificationsPublishedTotal counts domain notifications written for users.
	NotificationsPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sabuzz_notifications_published_total",
		Help: "Total number of domain notifications written",
	})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

const queryStartKey = "observability:query_start"

// RegisterDatabaseMetrics attaches GORM callbacks that record per-query
// latency into DatabaseQueryLatency, labeled by operation and table.
func RegisterDatabaseMetrics(db *gorm.DB) error {
	m := NewDatabaseMetrics(db)

	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(tx *gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "raw"
			}
			m.ObserveQuery(operation, table, start)
		}
	}

	firstErr := func(errs ...error) error {
		for _, err := range errs {
			if err != nil {
				return err
			}
		}
		return nil
	}
	return firstErr(
		db.Callback().Create().Before("gorm:create").Register("observability:before_create", before),
		db.Callback().Create().After("gorm:create").Register("observability:after_create", after("create")),
		db.Callback().Query().Before("gorm:query").Register("observability:before_query", before),
		db.Callback().Query().After("gorm:query").Register("observability:after_query", after("query")),
		db.Callback().Update().Before("gorm:update").Register("observability:before_update", before),
		db.Callback().Update().After("gorm:update").Register("observability:after_update", after("update")),
		db.Callback().Delete().Before("gorm:delete").Register("observability:before_delete", before),
		db.Callback().Delete().After("gorm:delete").Register("observability:after_delete", after("delete")),
		db.Callback().Row().Before("gorm:row").Register("observability:before_row", before),
		db.Callback().Row().After("gorm:row").Register("observability:after_row", after("row")),
		db.Callback().Raw().Before("gorm:raw").Register("observability:before_raw", before),
		db.Callback().Raw().After("gorm:raw").Register("observability:after_raw", after("raw")),
	)
}

// RecordExternalFetch increments the outbound fetch counter.
func RecordExternalFetch(provider, outcome string) {
	ExternalFetchTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordModeration increments the moderation decision counter.
func RecordModeration(subject, action string) {
	ModerationActionsTotal.WithLabelValues(subject, action).Inc()
}
