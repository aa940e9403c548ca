package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_FirmaYVerifica(t *testing.T) {
	s := NewSigner("secreto", "mostrador-api", time.Hour)
	sub := Subject{UserID: "u-1", CompanyID: "c-1", Role: "vendedor"}

	tok, exp, err := s.Sign(sub)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	got, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, sub, got)
}

func TestSigner_Vencido(t *testing.T) {
	s := NewSigner("secreto", "mostrador-api", time.Minute)
	tok, _, err := s.Sign(Subject{UserID: "u-1", CompanyID: "c-1", Role: "admin"})
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSigner_OtroSecreto(t *testing.T) {
	tok, _, err := NewSigner("uno", "x", time.Hour).Sign(Subject{UserID: "u-1"})
	require.NoError(t, err)

	_, err = NewSigner("dos", "x", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSigner_SecretoVacio(t *testing.T) {
	s := NewSigner("", "x", time.Hour)
	_, _, err := s.Sign(Subject{UserID: "u-1"})
	assert.Error(t, err)
	_, err = s.Verify("a.b.c")
	assert.Error(t, err)
}
