package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
)

// CompanyRepo implementa repository.CompanyRepository.
type CompanyRepo struct{ view }

func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	defer r.lock()()
	for _, existing := range r.s.companies {
		if existing.CUIT == c.CUIT {
			return domain.ErrDuplicate
		}
	}
	r.s.companies[c.ID] = *c
	r.s.track(c.ID)
	return nil
}

func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	defer r.lock()()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CompanyRepo) GetByCUIT(ctx context.Context, cuit string) (*entity.Company, error) {
	defer r.lock()()
	for _, c := range r.s.companies {
		if c.CUIT == cuit {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepo) First(ctx context.Context) (*entity.Company, error) {
	defer r.lock()()
	var first *entity.Company
	for _, c := range r.s.companies {
		c := c
		if first == nil || r.s.before(c.ID, c.CreatedAt, first.ID, first.CreatedAt) {
			first = &c
		}
	}
	return first, nil
}

func (r *CompanyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Company, error) {
	return r.GetByID(ctx, id)
}

func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	defer r.lock()()
	if _, ok := r.s.companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.companies[c.ID] = *c
	return nil
}

// UserRepo implementa repository.UserRepository.
type UserRepo struct{ view }

func (r *UserRepo) emailTaken(email, exceptID string) bool {
	for _, u := range r.s.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	defer r.lock()()
	if _, ok := r.s.companies[u.CompanyID]; !ok {
		return domain.ErrInvalidInput
	}
	if r.emailTaken(u.Email, "") {
		return domain.ErrEmailAlreadyExists
	}
	r.s.users[u.ID] = *u
	r.s.track(u.ID)
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	defer r.lock()()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	defer r.lock()()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) FirstByCompany(ctx context.Context, companyID string) (*entity.User, error) {
	defer r.lock()()
	var first *entity.User
	for _, u := range r.s.users {
		u := u
		if u.CompanyID != companyID {
			continue
		}
		if first == nil || r.s.before(u.ID, u.CreatedAt, first.ID, first.CreatedAt) {
			first = &u
		}
	}
	return first, nil
}

func (r *UserRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error) {
	defer r.lock()()
	out := make([]*entity.User, 0)
	for _, u := range r.s.users {
		if u.CompanyID == companyID {
			u := u
			out = append(out, &u)
		}
	}
	sortByName(out, func(u *entity.User) string { return u.Name })
	return out, nil
}

func (r *UserRepo) CountByCompany(ctx context.Context, companyID string) (int, error) {
	defer r.lock()()
	n := 0
	for _, u := range r.s.users {
		if u.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	defer r.lock()()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return domain.ErrEmailAlreadyExists
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}
