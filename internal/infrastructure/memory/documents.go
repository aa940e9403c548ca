package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// SaleRepo implementa repository.SaleRepository.
type SaleRepo struct{ view }

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	defer r.lock()()
	if s.IdempotencyKey != "" {
		for _, existing := range r.s.sales {
			if existing.CompanyID == s.CompanyID && existing.IdempotencyKey == s.IdempotencyKey {
				return domain.ErrDuplicate
			}
		}
	}
	for _, it := range s.Items {
		if _, ok := r.s.products[it.ProductID]; !ok {
			return domain.ErrInvalidInput
		}
	}
	r.s.sales[s.ID] = cloneSale(*s)
	r.s.track(s.ID)
	return nil
}

// withProducts completa código y nombre de producto como hace el JOIN en PostgreSQL.
func (r *SaleRepo) withProducts(s entity.Sale) *entity.Sale {
	out := cloneSale(s)
	for i := range out.Items {
		if p, ok := r.s.products[out.Items[i].ProductID]; ok {
			out.Items[i].ProductCode = p.Code
			out.Items[i].ProductName = p.Name
		}
	}
	return &out
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	defer r.lock()()
	s, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return r.withProducts(s), nil
}

func (r *SaleRepo) GetByIdempotencyKey(ctx context.Context, companyID, key string) (*entity.Sale, error) {
	defer r.lock()()
	for _, s := range r.s.sales {
		if s.CompanyID == companyID && s.IdempotencyKey == key {
			return r.withProducts(s), nil
		}
	}
	return nil, nil
}

func (r *SaleRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Sale, error) {
	defer r.lock()()
	out := make([]*entity.Sale, 0)
	for _, s := range r.s.sales {
		if s.CompanyID == companyID {
			s := cloneSale(s)
			s.Items = nil
			out = append(out, &s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return r.s.before(out[j].ID, out[j].CreatedAt, out[i].ID, out[i].CreatedAt)
	})
	return page(out, limit, offset), nil
}

func (r *SaleRepo) TransitionStatus(ctx context.Context, id, from, to string) error {
	defer r.lock()()
	s, ok := r.s.sales[id]
	if !ok || s.Status != from {
		return domain.ErrConflict
	}
	s.Status = to
	r.s.sales[id] = s
	return nil
}

// DocumentRepo implementa repository.DocumentRepository.
type DocumentRepo struct{ view }

func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	defer r.lock()()
	for _, existing := range r.s.documents {
		if existing.CompanyID != d.CompanyID {
			continue
		}
		if existing.Number == d.Number {
			return domain.ErrDuplicate
		}
		if d.IdempotencyKey != "" && existing.IdempotencyKey == d.IdempotencyKey {
			return domain.ErrDuplicate
		}
	}
	if _, ok := r.s.clients[d.ClientID]; !ok {
		return domain.ErrInvalidInput
	}
	r.s.documents[d.ID] = cloneDocument(*d)
	r.s.track(d.ID)
	return nil
}

func (r *DocumentRepo) get(id string) *entity.Document {
	d, ok := r.s.documents[id]
	if !ok {
		return nil
	}
	out := cloneDocument(d)
	sort.SliceStable(out.Items, func(i, j int) bool { return out.Items[i].Position < out.Items[j].Position })
	return &out
}

func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	defer r.lock()()
	return r.get(id), nil
}

func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.GetByID(ctx, id)
}

func (r *DocumentRepo) GetByIdempotencyKey(ctx context.Context, companyID, key string) (*entity.Document, error) {
	defer r.lock()()
	for id, d := range r.s.documents {
		if d.CompanyID == companyID && d.IdempotencyKey == key {
			return r.get(id), nil
		}
	}
	return nil, nil
}

func (r *DocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	defer r.lock()()
	out := make([]*entity.Document, 0)
	for _, d := range r.s.documents {
		if d.CompanyID != f.CompanyID {
			continue
		}
		if (f.Type != "" && d.Type != f.Type) || (f.Status != "" && d.Status != f.Status) || (f.ClientID != "" && d.ClientID != f.ClientID) {
			continue
		}
		d := cloneDocument(d)
		d.Items = nil
		out = append(out, &d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return r.s.before(out[j].ID, out[j].CreatedAt, out[i].ID, out[i].CreatedAt)
	})
	return page(out, f.Limit, f.Offset), nil
}

func (r *DocumentRepo) UpdateHeader(ctx context.Context, d *entity.Document) error {
	defer r.lock()()
	cur, ok := r.s.documents[d.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, other := range r.s.documents {
		if id != d.ID && other.CompanyID == d.CompanyID && other.Number == d.Number {
			return domain.ErrDuplicate
		}
	}
	items := cur.Items
	cur = cloneDocument(*d)
	cur.Items = items
	r.s.documents[d.ID] = cur
	return nil
}

func (r *DocumentRepo) SetAuthorization(ctx context.Context, id, cae string, expiresAt time.Time, letter, status string) error {
	defer r.lock()()
	d, ok := r.s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.CAE = cae
	d.CAEExpiresAt = &expiresAt
	d.InvoiceLetter = letter
	d.Status = status
	r.s.documents[id] = d
	return nil
}

func (r *DocumentRepo) InsertItem(ctx context.Context, item *entity.DocumentItem) error {
	defer r.lock()()
	d, ok := r.s.documents[item.DocumentID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, it := range d.Items {
		if it.Position == item.Position {
			return domain.ErrDuplicate
		}
	}
	d.Items = append(append([]entity.DocumentItem(nil), d.Items...), *item)
	r.s.documents[item.DocumentID] = d
	return nil
}

func (r *DocumentRepo) UpdateItem(ctx context.Context, item *entity.DocumentItem) error {
	defer r.lock()()
	d, ok := r.s.documents[item.DocumentID]
	if !ok {
		return domain.ErrNotFound
	}
	items := append([]entity.DocumentItem(nil), d.Items...)
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = *item
			d.Items = items
			r.s.documents[item.DocumentID] = d
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *DocumentRepo) DeleteItemsFrom(ctx context.Context, documentID string, fromPosition int) error {
	defer r.lock()()
	d, ok := r.s.documents[documentID]
	if !ok {
		return domain.ErrNotFound
	}
	kept := make([]entity.DocumentItem, 0, len(d.Items))
	for _, it := range d.Items {
		if it.Position < fromPosition {
			kept = append(kept, it)
		}
	}
	d.Items = kept
	r.s.documents[documentID] = d
	return nil
}

func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.documents, id)
	return nil
}

// AnalyticsRepo implementa repository.AnalyticsRepository recorriendo las ventas.
type AnalyticsRepo struct{ view }

func (r *AnalyticsRepo) GetSalesSummary(ctx context.Context, companyID string, since time.Time) (repository.SalesSummary, error) {
	defer r.lock()()
	var out repository.SalesSummary
	for _, s := range r.s.sales {
		if s.CompanyID == companyID && s.Status == entity.SaleStatusCompleted && !s.CreatedAt.Before(since) {
			out.Total = out.Total.Add(s.Total)
			out.Count++
		}
	}
	return out, nil
}

func (r *AnalyticsRepo) GetPaidInvoicesTotal(ctx context.Context, companyID string, since time.Time) (decimal.Decimal, error) {
	defer r.lock()()
	total := decimal.Zero
	for _, d := range r.s.documents {
		if d.CompanyID == companyID && d.Type == entity.DocumentTypeInvoice &&
			d.Status == entity.DocumentStatusPaid && !d.CreatedAt.Before(since) {
			total = total.Add(d.Total)
		}
	}
	return total, nil
}

func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, companyID string, since time.Time, limit int) ([]repository.TopProductResult, error) {
	defer r.lock()()
	acc := map[string]*repository.TopProductResult{}
	for _, s := range r.s.sales {
		if s.CompanyID != companyID || s.Status != entity.SaleStatusCompleted || s.CreatedAt.Before(since) {
			continue
		}
		for _, it := range s.Items {
			row, ok := acc[it.ProductID]
			if !ok {
				p := r.s.products[it.ProductID]
				row = &repository.TopProductResult{ProductID: it.ProductID, Code: p.Code, Name: p.Name}
				acc[it.ProductID] = row
			}
			row.QuantitySold = row.QuantitySold.Add(it.Quantity)
			row.Revenue = row.Revenue.Add(it.Subtotal)
		}
	}
	out := make([]repository.TopProductResult, 0, len(acc))
	for _, row := range acc {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].QuantitySold.Cmp(out[j].QuantitySold); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
