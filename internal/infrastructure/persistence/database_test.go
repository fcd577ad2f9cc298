package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsight/backend/internal/infrastructure/config"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		driver string
		name   string
	}{
		{"postgres", "postgres"},
		{"", "postgres"},
		{"mysql", "mysql"},
		{"sqlite", "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := Dialector(&config.DatabaseConfig{Driver: tt.driver, Host: "localhost", Port: 5432, Path: ":memory:"})
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
		})
	}

	_, err := Dialector(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(&config.DatabaseConfig{Host: "db", Port: 3306, User: "shop", Password: "pw", DBName: "shopsight"})
	assert.Contains(t, dsn, "shop:pw@tcp(db:3306)/shopsight?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestDatabase_SQLite(t *testing.T) {
	db := newSQLiteDB(t)
	require.NoError(t, db.Ping(context.Background()))

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)

	for _, model := range AllModels() {
		assert.True(t, db.DB.Migrator().HasTable(model))
	}
}

func TestDatabase_AutoMigrateRejectsMySQL(t *testing.T) {
	db := &Database{Driver: "mysql"}
	assert.Error(t, db.AutoMigrate())
}
