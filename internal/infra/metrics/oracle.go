package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	drawsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oracle_draws_total",
			Help: "Count of successful daily draws.",
		},
	)

	drawsGated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oracle_draws_gated_total",
			Help: "Count of draw requests rejected by the once-per-day gate.",
		},
	)

	savesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oracle_saves_total",
			Help: "Count of saved oil entries appended.",
		},
	)

	listingsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oracle_listings_total",
			Help: "Count of saved-oil listings served.",
		},
	)

	droppedRefs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oracle_dropped_oil_refs_total",
			Help: "Saved entries dropped from listings because their oil id no longer resolves.",
		},
	)
)

func init() {
	register(drawsTotal, drawsGated, savesTotal, listingsTotal, droppedRefs)
}

func IncDraw()      { drawsTotal.Inc() }
func IncDrawGated() { drawsGated.Inc() }
func IncSave()      { savesTotal.Inc() }
func IncListing()   { listingsTotal.Inc() }

func IncDroppedRefs(n int) {
	if n > 0 {
		droppedRefs.Add(float64(n))
	}
}
