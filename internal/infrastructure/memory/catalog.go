package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ClientRepo implementa repository.ClientRepository.
type ClientRepo struct{ view }

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	defer r.lock()()
	r.s.clients[c.ID] = *c
	r.s.track(c.ID)
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	defer r.lock()()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *ClientRepo) List(ctx context.Context, f repository.ClientFilter) ([]*entity.Client, error) {
	defer r.lock()()
	out := make([]*entity.Client, 0)
	for _, c := range r.s.clients {
		if c.CompanyID != f.CompanyID {
			continue
		}
		if f.Search != "" && !containsFold(c.Name, f.Search) && !containsFold(c.TaxID, f.Search) {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sortByName(out, func(c *entity.Client) string { return c.Name })
	return page(out, f.Limit, f.Offset), nil
}

func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	defer r.lock()()
	if _, ok := r.s.clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.clients[c.ID] = *c
	return nil
}

// Delete emula ON DELETE RESTRICT en documents y SET NULL en sales.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.s.clients[id]; !ok {
		return domain.ErrNotFound
	}
	for _, d := range r.s.documents {
		if d.ClientID == id {
			return domain.ErrConflict
		}
	}
	for k, s := range r.s.sales {
		if s.ClientID == id {
			s.ClientID = ""
			r.s.sales[k] = s
		}
	}
	delete(r.s.clients, id)
	return nil
}

// CategoryRepo implementa repository.CategoryRepository.
type CategoryRepo struct{ view }

func (r *CategoryRepo) nameTaken(companyID, name, exceptID string) bool {
	for _, c := range r.s.categories {
		if c.ID != exceptID && c.CompanyID == companyID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	defer r.lock()()
	if r.nameTaken(c.CompanyID, c.Name, "") {
		return domain.ErrDuplicate
	}
	r.s.categories[c.ID] = *c
	r.s.track(c.ID)
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	defer r.lock()()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Category, error) {
	defer r.lock()()
	out := make([]*entity.Category, 0)
	for _, c := range r.s.categories {
		if c.CompanyID == companyID {
			c := c
			out = append(out, &c)
		}
	}
	sortByName(out, func(c *entity.Category) string { return c.Name })
	return out, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	defer r.lock()()
	if _, ok := r.s.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.nameTaken(c.CompanyID, c.Name, c.ID) {
		return domain.ErrDuplicate
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) countProducts(categoryID string) int {
	n := 0
	for _, p := range r.s.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n
}

func (r *CategoryRepo) CountProducts(ctx context.Context, categoryID string) (int, error) {
	defer r.lock()()
	return r.countProducts(categoryID), nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	if r.countProducts(id) > 0 {
		return domain.ErrCategoryInUse
	}
	delete(r.s.categories, id)
	return nil
}

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct{ view }

func (r *ProductRepo) codeTaken(code, exceptID string) bool {
	for _, p := range r.s.products {
		if p.ID != exceptID && p.Code == code {
			return true
		}
	}
	return false
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	defer r.lock()()
	if r.codeTaken(p.Code, "") {
		return domain.ErrDuplicate
	}
	r.s.products[p.ID] = *p
	r.s.track(p.ID)
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	defer r.lock()()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate igual que GetByID: las transacciones del store ya son serializadas.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	defer r.lock()()
	for _, p := range r.s.products {
		if p.Code == code {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	defer r.lock()()
	out := make([]*entity.Product, 0)
	for _, p := range r.s.products {
		if p.CompanyID != f.CompanyID {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.Search != "" && !containsFold(p.Name, f.Search) && !containsFold(p.Code, f.Search) {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sortByName(out, func(p *entity.Product) string { return p.Name })
	return page(out, f.Limit, f.Offset), nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	defer r.lock()()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.codeTaken(p.Code, p.ID) {
		return domain.ErrDuplicate
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	defer r.lock()()
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	r.s.products[productID] = p
	return nil
}

// Delete emula las claves foráneas: RESTRICT en sale_items, SET NULL en document_items
// y CASCADE en stock y movimientos.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, s := range r.s.sales {
		for _, it := range s.Items {
			if it.ProductID == id {
				return domain.ErrConflict
			}
		}
	}
	for k, d := range r.s.documents {
		changed := false
		for i := range d.Items {
			if d.Items[i].ProductID == id {
				d.Items[i].ProductID = ""
				changed = true
			}
		}
		if changed {
			r.s.documents[k] = d
		}
	}
	kept := r.s.movements[:0:0]
	for _, m := range r.s.movements {
		if m.ProductID != id {
			kept = append(kept, m)
		}
	}
	r.s.movements = kept
	delete(r.s.stock, id)
	delete(r.s.products, id)
	return nil
}

// StockRepo implementa repository.StockRepository.
type StockRepo struct{ view }

func (r *StockRepo) Create(ctx context.Context, st *entity.Stock) error {
	defer r.lock()()
	if _, ok := r.s.products[st.ProductID]; !ok {
		return domain.ErrInvalidInput
	}
	if _, ok := r.s.stock[st.ProductID]; ok {
		return domain.ErrDuplicate
	}
	r.s.stock[st.ProductID] = *st
	return nil
}

func (r *StockRepo) Get(ctx context.Context, productID string) (*entity.Stock, error) {
	defer r.lock()()
	st, ok := r.s.stock[productID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *StockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.Stock, error) {
	return r.Get(ctx, productID)
}

func (r *StockRepo) SetQuantity(ctx context.Context, productID string, qty decimal.Decimal) error {
	defer r.lock()()
	st, ok := r.s.stock[productID]
	if !ok {
		return domain.ErrNotFound
	}
	st.Quantity = qty
	r.s.stock[productID] = st
	return nil
}

func (r *StockRepo) UpdateThresholds(ctx context.Context, productID string, minQty, maxQty decimal.Decimal, location string) error {
	defer r.lock()()
	st, ok := r.s.stock[productID]
	if !ok {
		return domain.ErrNotFound
	}
	st.MinQuantity = minQty
	st.MaxQuantity = maxQty
	st.Location = location
	r.s.stock[productID] = st
	return nil
}

func (r *StockRepo) Decrement(ctx context.Context, productID string, qty decimal.Decimal) (decimal.Decimal, error) {
	defer r.lock()()
	st, ok := r.s.stock[productID]
	if !ok || st.Quantity.LessThan(qty) {
		return decimal.Zero, domain.ErrInsufficientStock
	}
	st.Quantity = st.Quantity.Sub(qty)
	r.s.stock[productID] = st
	return st.Quantity, nil
}

func (r *StockRepo) ListByCompany(ctx context.Context, companyID string, lowOnly bool) ([]*entity.StockLevel, error) {
	defer r.lock()()
	out := make([]*entity.StockLevel, 0)
	for pid, st := range r.s.stock {
		p, ok := r.s.products[pid]
		if !ok || p.CompanyID != companyID {
			continue
		}
		if lowOnly && !st.IsLow() {
			continue
		}
		out = append(out, &entity.StockLevel{
			Stock:       st,
			CompanyID:   p.CompanyID,
			ProductCode: p.Code,
			ProductName: p.Name,
			Unit:        p.Unit,
		})
	}
	sortByName(out, func(l *entity.StockLevel) string { return l.ProductName })
	return out, nil
}

// MovementRepo implementa repository.StockMovementRepository.
type MovementRepo struct{ view }

func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	defer r.lock()()
	if _, ok := r.s.products[m.ProductID]; !ok {
		return domain.ErrInvalidInput
	}
	r.s.movements = append(r.s.movements, *m)
	r.s.track(m.ID)
	return nil
}

func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	defer r.lock()()
	out := make([]*entity.StockMovement, 0)
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			m := m
			out = append(out, &m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return r.s.before(out[j].ID, out[j].CreatedAt, out[i].ID, out[i].CreatedAt)
	})
	return page(out, limit, offset), nil
}
