package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ItinerariesGeneratedTotal metric.Int64Counter
	BookingConfirmationsTotal metric.Int64Counter
	ChatRelayDurationSeconds  metric.Float64Histogram
	DbQueryErrorsTotal        metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments exactly once.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("yatra-api")
		var err error
		m := &AppMetrics{}

		m.ItinerariesGeneratedTotal, err = meter.Int64Counter(
			"itineraries_generated_total",
			metric.WithDescription("Total number of itineraries generated"),
			metric.WithUnit("{itinerary}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itineraries_generated_total: %v", err)
		}

		m.BookingConfirmationsTotal, err = meter.Int64Counter(
			"booking_confirmations_total",
			metric.WithDescription("Total number of cart items confirmed as booked"),
			metric.WithUnit("{booking}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create booking_confirmations_total: %v", err)
		}

		m.ChatRelayDurationSeconds, err = meter.Float64Histogram(
			"chat_relay_duration_seconds",
			metric.WithDescription("Duration of chat relay round trips to the model API"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_relay_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
