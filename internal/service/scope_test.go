package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Mactto/weight-daily-log-api/internal/apperr"
	"github.com/Mactto/weight-daily-log-api/internal/config"
	"github.com/Mactto/weight-daily-log-api/internal/reqctx"
)

var fixedNow = time.Date(2024, 3, 5, 21, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTestFactory(t *testing.T) (*reqctx.Factory, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return reqctx.NewFactory(db, config.Config{}, zap.NewNop()), mock
}

// newTestScope binds a scope over a mocked database. The scope is released
// and the expectations checked when the test ends.
func newTestScope(t *testing.T) (*reqctx.Scope, sqlmock.Sqlmock) {
	t.Helper()
	factory, mock := newTestFactory(t)
	sc := factory.Bind(context.Background())
	t.Cleanup(func() {
		factory.Unbind(sc)
		require.NoError(t, mock.ExpectationsWereMet())
	})
	return sc, mock
}

func zapNop() *zap.Logger { return zap.NewNop() }

func requireLogicCode(t *testing.T, err error, want apperr.LogicCode) *apperr.LogicError {
	t.Helper()
	var logicErr *apperr.LogicError
	require.ErrorAs(t, err, &logicErr)
	require.Equal(t, want, logicErr.Code, "got %v", err)
	return logicErr
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}
