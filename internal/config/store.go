package config

// StoreConfig selects the persistence backends. Both applications default to
// in-memory repositories; setting a path or address switches to the
// persistent implementation.
type StoreConfig struct {
	// SQLitePath is the path of the SQLite database file. Empty selects the
	// in-memory repositories.
	SQLitePath string `env:"STORE_SQLITE_PATH"`

	// RedisAddr is the address of the Redis instance backing the refresh
	// token store. Empty selects the in-memory store.
	RedisAddr string `env:"STORE_REDIS_ADDR"`

	// RedisPassword authenticates against Redis when set.
	RedisPassword string `env:"STORE_REDIS_PASSWORD"`

	// RedisDB is the Redis logical database number.
	RedisDB int `env:"STORE_REDIS_DB" envDefault:"0"`
}
