package lock

// Config holds configuration for the redis instance backing run locks.
type Config struct {
	// Enabled switches from the in-process locker to redis.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Addr is the host:port of the redis server.
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Password is the optional redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the redis database number.
	DB int `mapstructure:"db" default:"0"`
}
