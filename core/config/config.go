package config

import (
	"reflect"
	"strings"

	"booking-sync/core/broker"
	"booking-sync/core/database"
	"booking-sync/core/lock"
	"booking-sync/core/logger"
	"booking-sync/core/metrics"
	"booking-sync/core/server"
	"booking-sync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage holding feed exports.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Sync holds configuration for reconciliation runs.
	Sync SyncConfig `mapstructure:"sync"`
	// Redis holds configuration for the per-account run lock.
	Redis lock.Config `mapstructure:"redis"`
	// Broker holds configuration for the reservation notification queue.
	Broker broker.Config `mapstructure:"broker"`
	// Metrics holds configuration for prometheus metrics.
	Metrics metrics.Config `mapstructure:"metrics"`
}

// SyncConfig controls how booking batches are reconciled.
type SyncConfig struct {
	// FeedPrefix is the storage prefix holding pending batch exports, one folder per account.
	FeedPrefix string `mapstructure:"feed_prefix" default:"feed"`
	// ArchivePrefix is where committed batch exports are moved.
	ArchivePrefix string `mapstructure:"archive_prefix" default:"archive"`
	// FlushEvery flushes staged writes every N records. Zero flushes once per batch.
	FlushEvery int `mapstructure:"flush_every" default:"0"`
	// MaxAttempts bounds batch retries after a duplicate key conflict.
	MaxAttempts int `mapstructure:"max_attempts" default:"3"`
	// DefaultCountry is the fallback country code for guests.
	DefaultCountry string `mapstructure:"default_country" default:"ES"`
	// LockTTLSeconds is how long a per-account run lock is held at most.
	LockTTLSeconds int `mapstructure:"lock_ttl_seconds" default:"600"`
	// ReferenceTTLSeconds caches reference tables between runs. Zero disables caching.
	ReferenceTTLSeconds int `mapstructure:"reference_ttl_seconds" default:"300"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SYNC_FLUSH_EVERY -> sync.flush_every)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
