package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
	"github.com/jhoicas/mostrador-api/pkg/afip"
	"github.com/jhoicas/mostrador-api/pkg/jwt"
	"github.com/jhoicas/mostrador-api/pkg/logger"
)

// TxRunner ejecuta el alta de empresa y usuario en una sola transacción.
type TxRunner interface {
	RunAccounts(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		userRepo repository.UserRepository,
	) error) error
}

// AuthUseCase casos de uso de autenticación: registro, login y acceso demo.
type AuthUseCase struct {
	txRunner    TxRunner
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	signer      *jwt.Signer
	demo        bool
	log         *logger.Logger
	now         func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. demo habilita dev-login.
func NewAuthUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	signer *jwt.Signer,
	demo bool,
	log *logger.Logger,
) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		txRunner:    txRunner,
		userRepo:    userRepo,
		companyRepo: companyRepo,
		signer:      signer,
		demo:        demo,
		log:         log.WithComponent("auth"),
		now:         time.Now,
	}
}

// Register crea la empresa y su primer usuario administrador en una transacción y devuelve
// un token de sesión. CUIT repetida: ErrDuplicate; email repetido: ErrEmailAlreadyExists.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	if err := afip.ValidateCUIT(in.CUIT); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	companyName := strings.TrimSpace(in.CompanyName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if companyName == "" || email == "" || name == "" {
		return nil, fmt.Errorf("%w: empresa, nombre y email son obligatorios", domain.ErrInvalidInput)
	}
	taxCondition := in.TaxCondition
	if taxCondition == "" {
		taxCondition = entity.TaxConditionResponsableInscripto
	}
	if !afip.ValidCompanyTaxConditions[taxCondition] {
		return nil, fmt.Errorf("%w: una empresa no puede ser %s", domain.ErrInvalidInput, strings.ToLower(taxCondition))
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	company := &entity.Company{
		ID:           uuid.New().String(),
		Name:         companyName,
		CUIT:         afip.NormalizeCUIT(in.CUIT),
		TaxCondition: taxCondition,
		Address:      strings.TrimSpace(in.Address),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        email,
		PointOfSale:  1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.RunAccounts(ctx, func(companyRepo repository.CompanyRepository, userRepo repository.UserRepository) error {
		existing, err := companyRepo.GetByCUIT(ctx, company.CUIT)
		if err != nil {
			return fmt.Errorf("buscar CUIT: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: la CUIT %s ya está registrada", domain.ErrDuplicate, afip.FormatCUIT(company.CUIT))
		}
		if err := companyRepo.Create(ctx, company); err != nil {
			return fmt.Errorf("crear empresa: %w", err)
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("crear usuario: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("company_id", company.ID).Str("user_id", user.ID).Msg("empresa registrada")
	return uc.session(user, company)
}

// Login verifica email/password y genera el JWT. Email inexistente o password
// incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := CheckPassword(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			uc.log.Warn().Str("user_id", user.ID).Msg("login con contraseña incorrecta")
		}
		return nil, err
	}
	company, err := uc.companyRepo.GetByID(ctx, user.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrTenantNotFound
	}
	return uc.session(user, company)
}

// DevLogin emite un token para el primer usuario de la primera empresa. Solo en modo demo.
func (uc *AuthUseCase) DevLogin(ctx context.Context) (*dto.LoginResponse, error) {
	if !uc.demo {
		return nil, domain.ErrDemoDisabled
	}
	company, err := uc.companyRepo.First(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa demo: %w", err)
	}
	if company == nil {
		return nil, domain.ErrTenantNotFound
	}
	user, err := uc.userRepo.FirstByCompany(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario demo: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	uc.log.Warn().Str("company_id", company.ID).Str("user_id", user.ID).Msg("dev-login")
	return uc.session(user, company)
}

// Me devuelve el usuario y la empresa de la sesión.
func (uc *AuthUseCase) Me(ctx context.Context, tc domain.TenantContext) (*dto.LoginResponse, error) {
	company, err := uc.companyRepo.GetByID(ctx, tc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrTenantNotFound
	}
	out := &dto.LoginResponse{Company: dto.FromCompany(company)}
	if tc.UserID == "" {
		return out, nil
	}
	user, err := uc.userRepo.GetByID(ctx, tc.UserID)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out.User = dto.FromUser(user)
	return out, nil
}

func (uc *AuthUseCase) session(user *entity.User, company *entity.Company) (*dto.LoginResponse, error) {
	token, exp, err := uc.signer.Sign(jwt.Subject{UserID: user.ID, CompanyID: company.ID, Role: user.Role})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.FromUser(user),
		Company:   dto.FromCompany(company),
	}, nil
}
