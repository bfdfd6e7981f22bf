package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

func TestWrapErr_CodigosDeConcurrencia(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03", "23505"} {
		err := wrapErr("update stock", &pgconn.PgError{Code: code, Message: "boom"})
		assert.ErrorIs(t, err, domain.ErrConflict, "código %s", code)
		assert.True(t, domain.IsRetryable(err))
	}
}

func TestWrapErr_OtrosErrores(t *testing.T) {
	err := wrapErr("insert movement", &pgconn.PgError{Code: "23514", Message: "check"})
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "insert movement")

	plain := errors.New("conexión cerrada")
	assert.ErrorIs(t, wrapErr("get stock", plain), plain)
	assert.Nil(t, wrapErr("noop", nil))
}

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(wrapped))
	assert.False(t, isUniqueViolation(errors.New("23505 en texto")))
}
