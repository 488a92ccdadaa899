package blogapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// postsSeeded counts posts inserted by seed runs across the process
// lifetime. HTTP-level metrics come from the echoprometheus middleware.
var postsSeeded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "blogapi",
	Name:      "posts_seeded_total",
	Help:      "Number of sample posts inserted by seed runs.",
})
