package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	salesCommittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_committed_total",
		Help: "Total number of successfully committed sales",
	})

	checkoutFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_checkout_failures_total",
		Help: "Total number of failed checkouts by reason",
	}, []string{"reason"})

	revenueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_revenue_total",
		Help: "Cumulative revenue from committed sales",
	})

	cartLinesAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_cart_lines_added_total",
		Help: "Total number of add-to-cart operations that succeeded",
	})
)
