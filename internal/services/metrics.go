package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fareLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "horizontravels_fare_lookups_total",
		Help: "Fare resolver calls by outcome",
	}, []string{"result"})
	bookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "horizontravels_bookings_created_total",
		Help: "Bookings created by travel type",
	}, []string{"travel_type"})
	bookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "horizontravels_bookings_cancelled_total",
		Help: "Bookings moved to cancelled",
	})
	refundsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "horizontravels_refund_amount_total",
		Help: "Sum of refunds granted on cancellation",
	})
)
