package afip

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de validación de CUIT/CUIL.
var (
	ErrCUITLength   = errors.New("afip: la CUIT debe tener 11 dígitos")
	ErrCUITChars    = errors.New("afip: la CUIT solo admite dígitos y separadores")
	ErrCUITChecksum = errors.New("afip: dígito verificador de la CUIT inválido")
)

// pesos del módulo 11 aplicados a los 10 primeros dígitos, de izquierda a derecha.
var cuitWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// NormalizeCUIT quita guiones, puntos y espacios. No valida.
func NormalizeCUIT(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '.', ' ', '/':
			return -1
		}
		return r
	}, strings.TrimSpace(id))
}

// CheckDigit calcula el dígito verificador de los 10 primeros dígitos.
// Resto 0 -> 0, resto 1 -> 9, otro -> 11 - resto.
func CheckDigit(first10 string) (byte, error) {
	if len(first10) != 10 {
		return 0, fmt.Errorf("afip: se requieren 10 dígitos para el verificador, se recibieron %d", len(first10))
	}
	var sum int
	for i := 0; i < 10; i++ {
		c := first10[i]
		if c < '0' || c > '9' {
			return 0, ErrCUITChars
		}
		sum += int(c-'0') * cuitWeights[i]
	}
	switch r := sum % 11; r {
	case 0:
		return '0', nil
	case 1:
		return '9', nil
	default:
		return byte('0' + (11 - r)), nil
	}
}

// ValidateCUIT devuelve nil si la CUIT (con o sin separadores) tiene 11 dígitos y
// el verificador coincide. "20-12345678-6", "20.12345678.6" y "20123456786" son equivalentes.
func ValidateCUIT(id string) error {
	digits := NormalizeCUIT(id)
	if len(digits) != 11 {
		for _, r := range digits {
			if r < '0' || r > '9' {
				return ErrCUITChars
			}
		}
		return ErrCUITLength
	}
	expected, err := CheckDigit(digits[:10])
	if err != nil {
		return err
	}
	if digits[10] != expected {
		return fmt.Errorf("%w: esperado %c, recibido %c", ErrCUITChecksum, expected, digits[10])
	}
	return nil
}

// IsValidCUIT versión booleana de ValidateCUIT.
func IsValidCUIT(id string) bool {
	return ValidateCUIT(id) == nil
}

// FormatCUIT devuelve la CUIT como XX-XXXXXXXX-X. Si no tiene 11 dígitos la devuelve normalizada.
func FormatCUIT(id string) string {
	digits := NormalizeCUIT(id)
	if len(digits) != 11 {
		return digits
	}
	return digits[:2] + "-" + digits[2:10] + "-" + digits[10:]
}
