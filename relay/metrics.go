package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_relay_sessions_active",
		Help: "Number of live chat sessions.",
	})
	activeRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_relay_rooms_active",
		Help: "Number of rooms with at least one member.",
	})
	envelopesRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_relay_envelopes_relayed_total",
		Help: "Envelopes accepted and fanned out, by kind.",
	}, []string{"kind"})
	envelopesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_relay_envelopes_dropped_total",
		Help: "Inbound envelopes dropped before fan-out, by reason.",
	}, []string{"reason"})
	deliveryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_relay_delivery_failures_total",
		Help: "Per-member delivery failures during fan-out.",
	})
)
