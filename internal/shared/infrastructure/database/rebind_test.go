package database_test

import (
	"testing"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/database"
	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name     string
		driver   database.Driver
		query    string
		expected string
	}{
		{
			"postgres untouched",
			database.DriverPostgres,
			"SELECT id FROM beds WHERE premises_id = $1 AND end_date > $2",
			"SELECT id FROM beds WHERE premises_id = $1 AND end_date > $2",
		},
		{
			"sqlite single placeholder",
			database.DriverSQLite,
			"DELETE FROM space_bookings WHERE id = $1",
			"DELETE FROM space_bookings WHERE id = ?",
		},
		{
			"sqlite multi digit",
			database.DriverSQLite,
			"INSERT INTO t VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
			"INSERT INTO t VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		},
		{
			"sqlite bare dollar preserved",
			database.DriverSQLite,
			"SELECT '$' || amount FROM t WHERE id = $1",
			"SELECT '$' || amount FROM t WHERE id = ?",
		},
		{
			"sqlite no placeholders",
			database.DriverSQLite,
			"SELECT COUNT(*) FROM out_of_service_periods",
			"SELECT COUNT(*) FROM out_of_service_periods",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, database.Rebind(tt.driver, tt.query))
		})
	}
}
