package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExecutor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, db, GetExecutor(ctx, db).(*sql.DB))

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, tx, GetExecutor(txCtx, db).(*sql.Tx))

	mock.ExpectRollback()
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolGauges_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	g := NewPoolGauges(reg, "test")

	g.Observe("appointments", sql.DBStats{OpenConnections: 3, InUse: 2, Idle: 1})

	assert.Equal(t, float64(3), testutil.ToFloat64(g.OpenConnections.WithLabelValues("appointments")))
	assert.Equal(t, float64(2), testutil.ToFloat64(g.InUse.WithLabelValues("appointments")))
	assert.Equal(t, float64(1), testutil.ToFloat64(g.Idle.WithLabelValues("appointments")))
}
