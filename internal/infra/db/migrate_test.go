//go:build unit

package db

import (
	"testing"

	"clinic-scheduler/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationURL(t *testing.T) {
	cfg := config.DBConfig{
		Host:     "db",
		Port:     "5432",
		User:     "vet",
		Password: "secret",
		DBName:   "clinic",
		SSLMode:  "disable",
		TimeZone: "UTC",
	}

	assert.Equal(t, "pgx5://vet:secret@db:5432/clinic?sslmode=disable&timezone=UTC", migrationURL(cfg))
}

func TestRollbackMigrations_RejectsNonPositiveSteps(t *testing.T) {
	err := RollbackMigrations(config.DBConfig{}, 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps must be positive")
}
