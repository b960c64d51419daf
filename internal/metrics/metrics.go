package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessagesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatapp_messages_ingested_total",
		Help: "Messages accepted and persisted.",
	})
	EventsDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatapp_events_dispatched_total",
		Help: "Realtime events pushed to client connections.",
	})
	DeliveriesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatapp_deliveries_dropped_total",
		Help: "Deliveries dropped because a client send buffer was full.",
	})
	ConnectionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chatapp_ws_connections_open",
		Help: "Currently registered websocket connections.",
	})
)

// Handler returns an http.Handler for Prometheus scraping
func Handler() http.Handler {
	return promhttp.Handler()
}
