package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mostrador-api/internal/application/auth"
	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/infrastructure/memory"
	"github.com/jhoicas/mostrador-api/pkg/logger"
)

func newUsers(t *testing.T) (*UserUseCase, *memory.Store) {
	t.Helper()
	store := newStore(t)
	r := store.Repos()
	require.NoError(t, r.Users.Create(context.Background(), &entity.User{
		ID: "u-1", CompanyID: "co-1", Email: "admin@uno.com", Name: "Admin", Role: entity.RoleAdmin, CreatedAt: time.Now(),
	}))
	return NewUserUseCase(store, r.Users, logger.Nop()), store
}

func TestClient_DefaultsYCUIT(t *testing.T) {
	uc := NewClientUseCase(newStore(t).Repos().Clients)
	ctx := context.Background()

	cf, err := uc.Create(ctx, tcAdmin, dto.CreateClientRequest{Name: "Mostrador"})
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentTypeSinIdentificar, cf.DocumentType)
	assert.Equal(t, entity.TaxConditionConsumidorFinal, cf.TaxCondition)
	assert.True(t, cf.Balance.IsZero())

	ri, err := uc.Create(ctx, tcAdmin, dto.CreateClientRequest{
		Name: "Distribuidora SA", TaxID: "30-71234567-1", TaxCondition: entity.TaxConditionResponsableInscripto,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentTypeCUIT, ri.DocumentType)
	assert.Equal(t, "30712345671", ri.TaxID)

	dni, err := uc.Create(ctx, tcAdmin, dto.CreateClientRequest{Name: "Juana", TaxID: "28123456"})
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentTypeDNI, dni.DocumentType)
}

func TestClient_EntradaInvalida(t *testing.T) {
	tests := []struct {
		name string
		in   dto.CreateClientRequest
	}{
		{"sin nombre", dto.CreateClientRequest{Name: " "}},
		{"cuit inválida", dto.CreateClientRequest{Name: "A", TaxID: "30712345672", DocumentType: entity.DocumentTypeCUIT}},
		{"cuil corta", dto.CreateClientRequest{Name: "A", TaxID: "2012345", DocumentType: entity.DocumentTypeCUIL}},
		{"inscripto con dni", dto.CreateClientRequest{Name: "A", TaxID: "28123456", TaxCondition: entity.TaxConditionResponsableInscripto}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClientUseCase(newStore(t).Repos().Clients).Create(context.Background(), tcAdmin, tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestClient_CRUDYPropiedad(t *testing.T) {
	uc := NewClientUseCase(newStore(t).Repos().Clients)
	ctx := context.Background()
	c, err := uc.Create(ctx, tcAdmin, dto.CreateClientRequest{Name: "Carlos", Email: "carlos@mail.com"})
	require.NoError(t, err)

	upd, err := uc.Update(ctx, tcAdmin, c.ID, dto.UpdateClientRequest{Phone: ptr("11-5555-0000"), Balance: ptr(dec("1500.75"))})
	require.NoError(t, err)
	assert.Equal(t, "11-5555-0000", upd.Phone)
	assert.True(t, upd.Balance.Equal(dec("1500.75")))
	assert.Equal(t, "carlos@mail.com", upd.Email)

	_, err = uc.GetByID(ctx, tcOtra, c.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Update(ctx, tcOtra, c.ID, dto.UpdateClientRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, tcOtra, c.ID), domain.ErrForbidden)

	list, err := uc.List(ctx, tcAdmin, dto.ClientQuery{Search: "carl"})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	other, err := uc.List(ctx, tcOtra, dto.ClientQuery{})
	require.NoError(t, err)
	assert.Empty(t, other.Items)

	require.NoError(t, uc.Delete(ctx, tcAdmin, c.ID))
	_, err = uc.GetByID(ctx, tcAdmin, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUser_CreateSoloAdmin(t *testing.T) {
	uc, _ := newUsers(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, tcVendedor, dto.CreateUserRequest{Email: "v@uno.com", Password: "clave-segura", Name: "V"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	u, err := uc.Create(ctx, tcAdmin, dto.CreateUserRequest{Email: " V@Uno.com", Password: "clave-segura", Name: "Vendedora"})
	require.NoError(t, err)
	assert.Equal(t, "v@uno.com", u.Email)
	assert.Equal(t, entity.RoleVendedor, u.Role)
	assert.Equal(t, "co-1", u.CompanyID)

	_, err = uc.Create(ctx, tcAdmin, dto.CreateUserRequest{Email: "admin@uno.com", Password: "clave-segura", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	_, err = uc.Create(ctx, tcAdmin, dto.CreateUserRequest{Email: "x@uno.com", Password: "corta", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, tcAdmin, dto.CreateUserRequest{Email: "x@uno.com", Password: "clave-segura", Name: "X", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUser_UpdatePermisos(t *testing.T) {
	uc, store := newUsers(t)
	ctx := context.Background()
	v, err := uc.Create(ctx, tcAdmin, dto.CreateUserRequest{Email: "v@uno.com", Password: "clave-segura", Name: "V"})
	require.NoError(t, err)
	self := domain.TenantContext{CompanyID: "co-1", UserID: v.ID, Role: entity.RoleVendedor}

	upd, err := uc.Update(ctx, self, v.ID, dto.UpdateUserRequest{Name: ptr("Valeria"), Password: ptr("nueva-clave-1")})
	require.NoError(t, err)
	assert.Equal(t, "Valeria", upd.Name)
	stored, err := store.Repos().Users.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.NoError(t, auth.CheckPassword(stored.PasswordHash, "nueva-clave-1"))

	_, err = uc.Update(ctx, self, v.ID, dto.UpdateUserRequest{Role: ptr(entity.RoleAdmin)})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Update(ctx, self, "u-1", dto.UpdateUserRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	promoted, err := uc.Update(ctx, tcAdmin, v.ID, dto.UpdateUserRequest{Role: ptr(entity.RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, promoted.Role)

	_, err = uc.Update(ctx, tcAdmin, v.ID, dto.UpdateUserRequest{Email: ptr("admin@uno.com")})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUser_NoSeBorraElUltimo(t *testing.T) {
	uc, store := newUsers(t)
	ctx := context.Background()

	err := uc.Delete(ctx, tcAdmin, "u-1")
	require.ErrorIs(t, err, domain.ErrLastUser)
	n, err := store.Repos().Users.CountByCompany(ctx, "co-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	v, err := uc.Create(ctx, tcAdmin, dto.CreateUserRequest{Email: "v@uno.com", Password: "clave-segura", Name: "V"})
	require.NoError(t, err)
	assert.ErrorIs(t, uc.Delete(ctx, tcVendedor, v.ID), domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, tcOtra, v.ID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, tcAdmin, v.ID))

	_, err = uc.GetByID(ctx, tcAdmin, v.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUser_BorradosConcurrentesDejanUnUsuario(t *testing.T) {
	uc, store := newUsers(t)
	ctx := context.Background()
	v, err := uc.Create(ctx, tcAdmin, dto.CreateUserRequest{Email: "v@uno.com", Password: "clave-segura", Name: "V"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{"u-1", v.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = uc.Delete(ctx, tcAdmin, id)
		}(i, id)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrLastUser)
			failed++
		}
	}
	assert.Equal(t, 1, failed)
	n, err := store.Repos().Users.CountByCompany(ctx, "co-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCompany_GetYUpdate(t *testing.T) {
	uc := NewCompanyUseCase(newStore(t).Repos().Companies)
	ctx := context.Background()

	c, err := uc.Get(ctx, tcAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Uno", c.Name)

	_, err = uc.Update(ctx, tcVendedor, dto.UpdateCompanyRequest{Name: ptr("Nuevo")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	upd, err := uc.Update(ctx, tcAdmin, dto.UpdateCompanyRequest{
		Name: ptr("Uno SRL"), TaxCondition: ptr(entity.TaxConditionMonotributo), PointOfSale: ptr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "Uno SRL", upd.Name)
	assert.Equal(t, entity.TaxConditionMonotributo, upd.TaxCondition)
	assert.Equal(t, 3, upd.PointOfSale)
	assert.Equal(t, "20123456786", upd.CUIT)

	_, err = uc.Get(ctx, domain.TenantContext{CompanyID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}
