package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/infrastructure/memory"
	"github.com/jhoicas/mostrador-api/pkg/jwt"
	"github.com/jhoicas/mostrador-api/pkg/logger"
)

func newAuth(t *testing.T, demo bool) (*AuthUseCase, *memory.Store, *jwt.Signer) {
	t.Helper()
	store := memory.NewStore()
	r := store.Repos()
	signer := jwt.NewSigner("secreto-de-prueba", "mostrador-api", time.Hour)
	return NewAuthUseCase(store, r.Users, r.Companies, signer, demo, logger.Nop()), store, signer
}

func registerRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		CompanyName: "Almacén Don Pepe",
		CUIT:        "20-12345678-6",
		Name:        "Pepe",
		Email:       "Pepe@Almacen.com.ar ",
		Password:    "clave-segura",
	}
}

func TestRegister_CreaEmpresaYAdmin(t *testing.T) {
	uc, store, signer := newAuth(t, false)

	resp, err := uc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "20123456786", resp.Company.CUIT)
	assert.Equal(t, entity.TaxConditionResponsableInscripto, resp.Company.TaxCondition)
	assert.Equal(t, 1, resp.Company.PointOfSale)
	assert.Equal(t, entity.RoleAdmin, resp.User.Role)
	assert.Equal(t, "pepe@almacen.com.ar", resp.User.Email)

	sub, err := signer.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, sub.UserID)
	assert.Equal(t, resp.Company.ID, sub.CompanyID)
	assert.Equal(t, entity.RoleAdmin, sub.Role)

	n, err := store.Repos().Users.CountByCompany(context.Background(), resp.Company.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRegister_Duplicados(t *testing.T) {
	uc, store, _ := newAuth(t, false)
	ctx := context.Background()
	_, err := uc.Register(ctx, registerRequest())
	require.NoError(t, err)

	otraCUIT := registerRequest()
	otraCUIT.CUIT = "30712345671"
	_, err = uc.Register(ctx, otraCUIT)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	// el alta fallida del usuario no deja la empresa creada
	c, err := store.Repos().Companies.GetByCUIT(ctx, "30712345671")
	require.NoError(t, err)
	assert.Nil(t, c)

	mismaCUIT := registerRequest()
	mismaCUIT.Email = "otro@almacen.com.ar"
	_, err = uc.Register(ctx, mismaCUIT)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegister_EntradaInvalida(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.RegisterRequest)
	}{
		{"cuit con verificador mal", func(r *dto.RegisterRequest) { r.CUIT = "20123456787" }},
		{"cuit corta", func(r *dto.RegisterRequest) { r.CUIT = "2012345678" }},
		{"password corta", func(r *dto.RegisterRequest) { r.Password = "corta" }},
		{"sin nombre de empresa", func(r *dto.RegisterRequest) { r.CompanyName = "  " }},
		{"consumidor final", func(r *dto.RegisterRequest) { r.TaxCondition = entity.TaxConditionConsumidorFinal }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, _ := newAuth(t, false)
			in := registerRequest()
			tt.mutate(&in)
			_, err := uc.Register(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLogin(t *testing.T) {
	uc, _, _ := newAuth(t, false)
	ctx := context.Background()
	reg, err := uc.Register(ctx, registerRequest())
	require.NoError(t, err)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "PEPE@almacen.com.ar", Password: "clave-segura"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, reg.User.ID, resp.User.ID)
	assert.Equal(t, reg.Company.ID, resp.Company.ID)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "pepe@almacen.com.ar", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@almacen.com.ar", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDevLogin(t *testing.T) {
	ctx := context.Background()

	off, _, _ := newAuth(t, false)
	_, err := off.DevLogin(ctx)
	assert.ErrorIs(t, err, domain.ErrDemoDisabled)

	on, _, _ := newAuth(t, true)
	_, err = on.DevLogin(ctx)
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)

	reg, err := on.Register(ctx, registerRequest())
	require.NoError(t, err)
	resp, err := on.DevLogin(ctx)
	require.NoError(t, err)
	assert.Equal(t, reg.Company.ID, resp.Company.ID)
	assert.Equal(t, reg.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)

	empty, store, _ := newAuth(t, true)
	require.NoError(t, store.Repos().Companies.Create(ctx, &entity.Company{ID: "co-1", CUIT: "27000000006", CreatedAt: time.Now()}))
	_, err = empty.DevLogin(ctx)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestMe(t *testing.T) {
	uc, _, _ := newAuth(t, false)
	ctx := context.Background()
	reg, err := uc.Register(ctx, registerRequest())
	require.NoError(t, err)

	me, err := uc.Me(ctx, domain.TenantContext{CompanyID: reg.Company.ID, UserID: reg.User.ID})
	require.NoError(t, err)
	assert.Empty(t, me.Token)
	assert.Equal(t, reg.User.Email, me.User.Email)
	assert.Equal(t, reg.Company.Name, me.Company.Name)

	_, err = uc.Me(ctx, domain.TenantContext{CompanyID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("clave-segura")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "clave-segura"))
	assert.ErrorIs(t, CheckPassword(hash, "clave-errada"), domain.ErrUnauthorized)
}
