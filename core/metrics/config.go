package metrics

// Config holds configuration for prometheus metrics.
type Config struct {
	// Enabled exposes the /metrics endpoint.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Namespace prefixes every metric name.
	Namespace string `mapstructure:"namespace" default:"booking_sync"`
}
