package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	tok, err := Generate("secreto", "user-1", "admin", "stock-ledger-api", 5)
	require.NoError(t, err)

	claims, err := Parse("secreto", "stock-ledger-api", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := Generate("secreto", "user-1", "admin", "otro-emisor", 5)
	require.NoError(t, err)

	_, err = Parse("otro-secreto", "", tok)
	assert.Error(t, err, "firma incorrecta")

	_, err = Parse("secreto", "stock-ledger-api", tok)
	assert.Error(t, err, "emisor distinto")

	expired, err := Generate("secreto", "user-1", "admin", "", -1)
	require.NoError(t, err)
	_, err = Parse("secreto", "", expired)
	assert.Error(t, err, "token expirado")

	_, err = Generate("", "user-1", "admin", "", 5)
	assert.Error(t, err)
}
