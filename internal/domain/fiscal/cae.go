package fiscal

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	caeDigits   = 14
	caeValidity = 10 * 24 * time.Hour
)

// Authorization resultado de la autorización de un comprobante.
type Authorization struct {
	CAE       string
	ExpiresAt time.Time
}

// Authorizer simula la autorización electrónica: no hay ida y vuelta real con AFIP.
// Delay permite imitar la latencia del servicio; se corta si el contexto se cancela.
type Authorizer struct {
	Delay time.Duration
	Now   func() time.Time
}

// NewAuthorizer construye el simulador con la latencia indicada.
func NewAuthorizer(delay time.Duration) *Authorizer {
	return &Authorizer{Delay: delay, Now: time.Now}
}

// SimulateAuthorization devuelve un CAE aleatorio de 14 dígitos con vencimiento a 10 días.
func (a *Authorizer) SimulateAuthorization(ctx context.Context) (Authorization, error) {
	if a.Delay > 0 {
		timer := time.NewTimer(a.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Authorization{}, ctx.Err()
		case <-timer.C:
		}
	}
	cae, err := randomDigits(caeDigits)
	if err != nil {
		return Authorization{}, fmt.Errorf("generar CAE: %w", err)
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	return Authorization{CAE: cae, ExpiresAt: now().Add(caeValidity)}, nil
}

func randomDigits(n int) (string, error) {
	buf := make([]byte, n)
	ten := big.NewInt(10)
	for i := range buf {
		v, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + v.Int64())
	}
	// el primer dígito nunca es cero para que el código conserve 14 posiciones como número
	if buf[0] == '0' {
		buf[0] = '1'
	}
	return string(buf), nil
}
