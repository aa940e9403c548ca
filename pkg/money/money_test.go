package money_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/mostrador-api/pkg/money"
)

func TestFormat_IncluyeSimboloYDecimales(t *testing.T) {
	f := money.Default()
	got := f.Format(decimal.RequireFromString("363"))
	assert.True(t, strings.HasPrefix(got, "$ "), "obtenido %q", got)
	assert.Contains(t, got, "363")
}

func TestFormat_SeparadorDecimalRegional(t *testing.T) {
	es := money.Default().Format(decimal.RequireFromString("12.5"))
	en := money.NewFormatter("en-US", "USD").Format(decimal.RequireFromString("12.5"))
	assert.Contains(t, es, "12,50")
	assert.Contains(t, en, "12.50")
}

func TestNewFormatter_ValoresInvalidosUsanDefault(t *testing.T) {
	f := money.NewFormatter("??", "XYZW")
	assert.True(t, strings.HasPrefix(f.Format(decimal.NewFromInt(1)), "$ "))
}
