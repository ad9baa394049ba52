package database

import (
	"testing"

	"github.com/dukaanlabs/dukaan-api/internal/config"
)

func TestNewPostgresDB_UnreachableHost(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     "1",
		Name:     "dukaan",
		User:     "postgres",
		Password: "postgres",
		SSLMode:  "disable",
		Timezone: "UTC",
	}
	if _, err := NewPostgresDB(cfg); err == nil {
		t.Fatal("expected connection error for unreachable host")
	}
}
