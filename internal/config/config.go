package config

import "os"

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Postgres PostgresConfig
	RMM      RMMConfig
}

type ServerConfig struct {
	Addr string
}

type AuthConfig struct {
	// JWTSecret keys all token signatures. Read once at startup and never
	// mutated; safe to share across requests.
	JWTSecret string

	// BootstrapEmail, when set, names the demo admin account created at
	// startup with the fixed bootstrap credential.
	BootstrapEmail string
}

type RMMConfig struct {
	BaseURL string
	APIKey  string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Addr: getenv("LISTEN_ADDR", ":8080"),
		},
		Auth: AuthConfig{
			JWTSecret:      os.Getenv("JWT_SECRET"),
			BootstrapEmail: os.Getenv("BOOTSTRAP_EMAIL"),
		},
		RMM: RMMConfig{
			BaseURL: os.Getenv("RMM_BASE_URL"),
			APIKey:  os.Getenv("RMM_API_KEY"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
