package repository

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Operations tracks repository calls by operation and result
	Operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemcache_repository_operations_total",
			Help: "Total repository operations by operation and result",
		},
		[]string{"operation", "result"}, // result: "ok", "not_found"
	)

	// Entities tracks the number of live entities
	Entities = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "itemcache_repository_entities",
			Help: "Current number of entities held by the repository",
		},
	)
)

const (
	opCreate = "create"
	opRead   = "read"
	opUpdate = "update"
	opDelete = "delete"
	opList   = "list"

	resultOK       = "ok"
	resultNotFound = "not_found"
)
