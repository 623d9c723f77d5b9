package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/inventario-ledger/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
	testIssuer = "inventario-ledger-test"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := pkgjwt.Parse(testSecret, testIssuer, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, testIssuer, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", testIssuer, tok)
	assert.Error(t, err)
}

func TestParse_EmisorDistinto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "otro-emisor", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, testIssuer, tok)
	assert.Error(t, err)

	// sin emisor configurado no se valida
	userID, err := pkgjwt.Parse(testSecret, "", tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testUserID, testIssuer, 60)
	assert.Error(t, err)
}
