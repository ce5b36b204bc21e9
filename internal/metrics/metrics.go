package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label value constants to prevent typos
const (
	// Operation results
	ResultSuccess = "success"
	ResultFailure = "failure"

	// Engine operations
	OpQuery        = "query"
	OpCommand      = "command"
	OpLastInsertID = "last_insert_id"

	// Last-insert-id resolution tiers
	TierRowID = "last_insert_rowid"
	TierMaxID = "max_id"
	TierFirst = "first_row"

	// Persistence modes
	ModeOptimistic = "optimistic"
	ModeDurable    = "durable"
)

// Engine metrics
var (
	EngineOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_operations_total",
			Help: "Total number of engine operations by type and result",
		},
		[]string{"operation", "result"},
	)

	EngineInitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_init_total",
			Help: "Engine initializations by source (restored image or fresh schema)",
		},
		[]string{"source"},
	)

	LastInsertIDFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_last_insert_id_fallback_total",
			Help: "Which tier resolved the last inserted row id",
		},
		[]string{"tier"},
	)
)

// Persistence metrics
var (
	PersistTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blob_persist_total",
			Help: "Database image persistence attempts by result",
		},
		[]string{"result"},
	)

	PersistedImageBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blob_persisted_image_bytes",
			Help: "Size of the last successfully persisted database image",
		},
	)
)

// Auth metrics
var (
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)
)

// Seeder metrics
var (
	SeedInsertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seed_inserts_total",
			Help: "Seed row inserts by result",
		},
		[]string{"result"},
	)
)
