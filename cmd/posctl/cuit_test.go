package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCUITValidate(t *testing.T) {
	out, err := runCLI(t, "cuit", "validate", "20123456786", "30-71234567-1")
	require.NoError(t, err)
	assert.Contains(t, out, "20-12345678-6")
	assert.Contains(t, out, "30-71234567-1")

	out, err = runCLI(t, "cuit", "validate", "20123456786", "20123456780")
	require.Error(t, err)
	assert.Contains(t, out, "INVÁLIDA")
	assert.Contains(t, err.Error(), "1 de 2")
}

func TestCUITDigit(t *testing.T) {
	out, err := runCLI(t, "cuit", "digit", "20-12345678")
	require.NoError(t, err)
	assert.Equal(t, "20-12345678-6\n", out)

	_, err = runCLI(t, "cuit", "digit", "123")
	assert.Error(t, err)
}
