package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_checkins_total",
			Help: "Admitted check-ins per ticket type",
		},
		[]string{"type", "zone_id"},
	)

	CheckinsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_checkins_rejected_total",
			Help: "Rejected check-ins per reason",
		},
		[]string{"reason"},
	)

	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_checkouts_total",
			Help: "Completed checkouts per billing type",
		},
		[]string{"billing_type"},
	)

	BilledAmountTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parking_billed_amount_total",
			Help: "Sum of billed checkout amounts",
		},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "parking_websocket_clients",
			Help: "Currently connected websocket clients",
		},
	)

	ZoneOccupied = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "parking_zone_occupied",
			Help: "Occupied slots per zone",
		},
		[]string{"zone_id"},
	)
)
