// AngelaMos | 2026
// repository_test.go

package retention

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryPurgeBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(sqlx.NewDb(db, "pgx"))
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM entries\s+WHERE deleted_at IS NOT NULL\s+AND deleted_at < \$1`).
		WithArgs(cutoff, 500).
		WillReturnResult(sqlmock.NewResult(0, 42))

	n, err := repo.PurgeBatch(context.Background(), cutoff, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
