// Package config provides configuration management for the booking sync service.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults live next to each field in a `default` struct tag.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and the bucket holding feed exports
//   - Sync: batch flushing, retry and fallback settings for reconciliation runs
//   - Redis: optional distributed lock serializing runs per account
//   - Broker: optional RabbitMQ queue receiving reservation notifications
//   - Metrics: prometheus collection
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.FeedPrefix)
package config
