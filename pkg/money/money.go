// Package money formatea importes para presentación. Los valores persistidos
// y calculados son siempre decimal.Decimal; el formato se aplica solo al mostrar.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter convierte importes a texto según un idioma y una moneda.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter construye un formateador para el tag de idioma (ej. "es-AR") y
// el código ISO de moneda (ej. "ARS"). Si alguno es inválido usa es-AR / ARS.
func NewFormatter(lang, iso string) *Formatter {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.MustParse("es-AR")
	}
	unit, err := currency.ParseISO(iso)
	if err != nil {
		unit = currency.MustParseISO("ARS")
	}
	p := message.NewPrinter(tag)
	return &Formatter{
		printer: p,
		symbol:  p.Sprint(currency.NarrowSymbol(unit)),
	}
}

// Default formateador en pesos argentinos.
func Default() *Formatter {
	return NewFormatter("es-AR", "ARS")
}

// Format devuelve el importe con símbolo, separador de miles y dos decimales.
func (f *Formatter) Format(amount decimal.Decimal) string {
	v, _ := amount.Round(2).Float64()
	return f.symbol + " " + f.printer.Sprint(number.Decimal(v, number.Scale(2)))
}

// FormatQuantity devuelve una cantidad sin símbolo con hasta 3 decimales.
func (f *Formatter) FormatQuantity(q decimal.Decimal) string {
	v, _ := q.Float64()
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}
