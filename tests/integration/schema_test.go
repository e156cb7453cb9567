// This file guards the migrations against model drift: every column GORM
// persists for an aggregate must exist in the migrated schema, otherwise
// writes fail at runtime with "column does not exist".
package integration

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/investtrack/backend/internal/domain/audit"
	"github.com/investtrack/backend/internal/domain/catalog"
	"github.com/investtrack/backend/internal/domain/identity"
	"github.com/investtrack/backend/internal/domain/portfolio"
)

func TestMigrationsCoverModelColumns(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)

	models := []interface{}{
		&identity.User{},
		&catalog.Product{},
		&portfolio.Investment{},
		&audit.TransactionLog{},
	}

	cache := &sync.Map{}
	for _, model := range models {
		parsed, err := schema.Parse(model, cache, tdb.DB.NamingStrategy)
		require.NoError(t, err)

		var columns []string
		err = tdb.DB.Raw(
			"SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = ?",
			parsed.Table,
		).Scan(&columns).Error
		require.NoError(t, err)
		require.NotEmpty(t, columns, "table %s not created by migrations", parsed.Table)

		existing := make(map[string]bool, len(columns))
		for _, name := range columns {
			existing[name] = true
		}

		for _, field := range parsed.Fields {
			if field.DBName == "" {
				continue
			}
			assert.True(t, existing[field.DBName],
				"table %s is missing column %s mapped by %s", parsed.Table, field.DBName, field.Name)
		}
	}
}
