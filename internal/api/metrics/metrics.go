// Package metrics defines and registers all custom Prometheus metrics for the
// vehicle-info backend. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry at init
// time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vehinfo"

// ── Payment metrics ───────────────────────────────────────────────────────────

// OrdersCreatedTotal counts payment orders successfully opened at the gateway.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_orders_created_total",
		Help:      "Total number of payment orders created.",
	},
)

// PaymentsCreditedTotal counts settled payments that credited a balance.
// Label:
//   - trigger: "verify" (user-initiated poll) or "webhook" (gateway push)
var PaymentsCreditedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_credited_total",
		Help:      "Total number of payments credited to a balance, by trigger.",
	},
	[]string{"trigger"},
)

// WebhooksRejectedTotal counts webhook deliveries rejected before processing.
// Label:
//   - reason: "invalid_signature" or "malformed_payload"
var WebhooksRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_webhooks_rejected_total",
		Help:      "Total number of payment webhooks rejected, by reason.",
	},
	[]string{"reason"},
)

// GatewayRequestDuration measures outbound payment gateway call latency.
// Label:
//   - operation: "create_order" or "order_status"
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of outbound payment gateway requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Lookup metrics ────────────────────────────────────────────────────────────

// LookupsTotal counts metered vehicle lookups.
// Labels:
//   - service: "rc" or "chassis"
//   - result: "ok", "rejected" (insufficient funds), or "provider_error"
var LookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vehicle_lookups_total",
		Help:      "Total number of vehicle lookups, by service and result.",
	},
	[]string{"service", "result"},
)

// HitLogQueueDepth tracks the number of usage hits pending in each writer
// worker channel.
var HitLogQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hitlog_queue_depth",
		Help:      "Current number of usage hits pending in each writer worker channel.",
	},
	[]string{"worker_id"},
)
