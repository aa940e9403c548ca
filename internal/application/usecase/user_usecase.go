package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mostrador-api/internal/application/auth"
	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
	"github.com/jhoicas/mostrador-api/pkg/logger"
)

// AccountsTxRunner ejecuta una función en una transacción con empresas y usuarios.
type AccountsTxRunner interface {
	RunAccounts(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		userRepo repository.UserRepository,
	) error) error
}

// UserUseCase aplica reglas de negocio para usuarios: el email es único en el sistema
// y una empresa conserva siempre al menos un usuario.
type UserUseCase struct {
	txRunner AccountsTxRunner
	repo     repository.UserRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(txRunner AccountsTxRunner, repo repository.UserRepository, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{txRunner: txRunner, repo: repo, log: log.WithComponent("usuarios"), now: time.Now}
}

// List devuelve los usuarios de la empresa.
func (uc *UserUseCase) List(ctx context.Context, tc domain.TenantContext) ([]dto.UserResponse, error) {
	users, err := uc.repo.ListByCompany(ctx, tc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.FromUser(u))
	}
	return out, nil
}

// GetByID obtiene un usuario de la empresa.
func (uc *UserUseCase) GetByID(ctx context.Context, tc domain.TenantContext, id string) (*dto.UserResponse, error) {
	user, err := uc.owned(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromUser(user)
	return &out, nil
}

// Create da de alta un usuario en la empresa del actor. Solo administradores.
func (uc *UserUseCase) Create(ctx context.Context, tc domain.TenantContext, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !tc.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" {
		return nil, fmt.Errorf("%w: email y nombre son obligatorios", domain.ErrInvalidInput)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleVendedor
	}
	if !entity.IsValidRole(role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    tc.CompanyID,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("crear usuario: %w", err)
	}
	uc.log.Info().Str("company_id", tc.CompanyID).Str("user_id", user.ID).Str("role", role).Msg("usuario creado")
	out := dto.FromUser(user)
	return &out, nil
}

// Update aplica cambios parciales. Un administrador edita a cualquiera de su empresa;
// el resto solo a sí mismo y sin cambiar su rol.
func (uc *UserUseCase) Update(ctx context.Context, tc domain.TenantContext, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !tc.IsAdmin() && tc.UserID != id {
		return nil, domain.ErrForbidden
	}
	if in.Role != nil && !tc.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	user, err := uc.owned(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		user.Email = normalizeEmail(*in.Email)
		if user.Email == "" {
			return nil, fmt.Errorf("%w: email vacío", domain.ErrInvalidInput)
		}
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
		if user.Name == "" {
			return nil, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
		}
	}
	if in.Role != nil {
		if !entity.IsValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, *in.Role)
		}
		user.Role = *in.Role
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("actualizar usuario: %w", err)
	}
	out := dto.FromUser(user)
	return &out, nil
}

// Delete elimina un usuario. Solo administradores. Bloquea la fila de la empresa para que
// dos borrados simultáneos no la dejen sin usuarios (domain.ErrLastUser).
func (uc *UserUseCase) Delete(ctx context.Context, tc domain.TenantContext, id string) error {
	if !tc.IsAdmin() {
		return domain.ErrForbidden
	}
	err := uc.txRunner.RunAccounts(ctx, func(companyRepo repository.CompanyRepository, userRepo repository.UserRepository) error {
		company, err := companyRepo.GetForUpdate(ctx, tc.CompanyID)
		if err != nil {
			return fmt.Errorf("bloquear empresa: %w", err)
		}
		if company == nil {
			return domain.ErrTenantNotFound
		}
		user, err := userRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("obtener usuario: %w", err)
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		if err := tc.EnsureOwner(user.CompanyID); err != nil {
			return err
		}
		n, err := userRepo.CountByCompany(ctx, tc.CompanyID)
		if err != nil {
			return fmt.Errorf("contar usuarios: %w", err)
		}
		if n <= 1 {
			return domain.ErrLastUser
		}
		return userRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("company_id", tc.CompanyID).Str("user_id", id).Msg("usuario eliminado")
	return nil
}

func (uc *UserUseCase) owned(ctx context.Context, tc domain.TenantContext, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := tc.EnsureOwner(user.CompanyID); err != nil {
		return nil, err
	}
	return user, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
