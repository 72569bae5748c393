package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/amsmath/ams/internal/solve"
)

var (
	metricSolveResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ams",
		Name:      "solve_results_total",
		Help:      "Completed solve requests by outcome.",
	}, []string{"kind"})
	metricSolveRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ams",
		Name:      "solve_rejected_total",
		Help:      "Solve submissions rejected before reaching the solver.",
	})
	metricViewClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ams",
		Name:      "view_clients",
		Help:      "Connected /ws/view websocket clients.",
	})
	metricFeedbackPosted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ams",
		Name:      "feedback_posted_total",
		Help:      "Feedback entries stored.",
	})
)

func observeSolve(res solve.Result, err error) {
	if err != nil {
		metricSolveRejected.Inc()
		return
	}
	metricSolveResults.WithLabelValues(string(res.Kind)).Inc()
}
