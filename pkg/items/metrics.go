package items

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reads tracks orchestrated reads by kind and the layer that served them.
var Reads = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "itemcache_reads_total",
	Help: "Total orchestrated reads by kind and source",
}, []string{"kind", "source"}) // kind: "list", "item"; source: "cache", "repository"

const (
	kindList = "list"
	kindItem = "item"

	sourceCache      = "cache"
	sourceRepository = "repository"
)
