// Package memory implementa los puertos de repositorio en memoria.
// Reproduce las restricciones del esquema PostgreSQL (unicidad, claves foráneas,
// decremento condicional) para tests de casos de uso y para el modo sin base de datos del CLI.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
)

// Store contiene todas las tablas. Un único mutex serializa las transacciones,
// lo que equivale a bloquear todas las filas que toca cada una.
type Store struct {
	mu sync.Mutex

	seq        int64
	order      map[string]int64
	companies  map[string]entity.Company
	users      map[string]entity.User
	clients    map[string]entity.Client
	categories map[string]entity.Category
	products   map[string]entity.Product
	stock      map[string]entity.Stock
	movements  []entity.StockMovement
	sales      map[string]entity.Sale
	documents  map[string]entity.Document
}

var (
	_ repository.CompanyRepository       = (*CompanyRepo)(nil)
	_ repository.UserRepository          = (*UserRepo)(nil)
	_ repository.ClientRepository        = (*ClientRepo)(nil)
	_ repository.CategoryRepository      = (*CategoryRepo)(nil)
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.StockRepository         = (*StockRepo)(nil)
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.SaleRepository          = (*SaleRepo)(nil)
	_ repository.DocumentRepository      = (*DocumentRepo)(nil)
	_ repository.AnalyticsRepository     = (*AnalyticsRepo)(nil)
)

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		order:      map[string]int64{},
		companies:  map[string]entity.Company{},
		users:      map[string]entity.User{},
		clients:    map[string]entity.Client{},
		categories: map[string]entity.Category{},
		products:   map[string]entity.Product{},
		stock:      map[string]entity.Stock{},
		sales:      map[string]entity.Sale{},
		documents:  map[string]entity.Document{},
	}
}

// Repos agrupa los repositorios de una vista del store (fuera o dentro de una transacción).
type Repos struct {
	Companies  *CompanyRepo
	Users      *UserRepo
	Clients    *ClientRepo
	Categories *CategoryRepo
	Products   *ProductRepo
	Stock      *StockRepo
	Movements  *MovementRepo
	Sales      *SaleRepo
	Documents  *DocumentRepo
	Analytics  *AnalyticsRepo
}

// Repos devuelve repositorios que toman el lock en cada operación.
func (s *Store) Repos() Repos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) Repos {
	v := view{s: s, tx: inTx}
	return Repos{
		Companies:  &CompanyRepo{v},
		Users:      &UserRepo{v},
		Clients:    &ClientRepo{v},
		Categories: &CategoryRepo{v},
		Products:   &ProductRepo{v},
		Stock:      &StockRepo{v},
		Movements:  &MovementRepo{v},
		Sales:      &SaleRepo{v},
		Documents:  &DocumentRepo{v},
		Analytics:  &AnalyticsRepo{v},
	}
}

// view es la base de todos los repos: dentro de una transacción el lock ya está tomado.
type view struct {
	s  *Store
	tx bool
}

func (v view) lock() func() {
	if v.tx {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}

// ── Transacciones ──

// Run ejecuta fn en una transacción de stock. Si fn devuelve error se restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(movRepo repository.StockMovementRepository, stockRepo repository.StockRepository, productRepo repository.ProductRepository) error) error {
	return s.inTx(ctx, func(r Repos) error {
		return fn(r.Movements, r.Stock, r.Products)
	})
}

// RunSale transacción de venta (stock, productos y ventas).
func (s *Store) RunSale(ctx context.Context, fn func(movRepo repository.StockMovementRepository, stockRepo repository.StockRepository, productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error) error {
	return s.inTx(ctx, func(r Repos) error {
		return fn(r.Movements, r.Stock, r.Products, r.Sales)
	})
}

// RunDocument transacción sobre un comprobante y sus ítems.
func (s *Store) RunDocument(ctx context.Context, fn func(docRepo repository.DocumentRepository) error) error {
	return s.inTx(ctx, func(r Repos) error {
		return fn(r.Documents)
	})
}

// RunAccounts transacción sobre empresas y usuarios.
func (s *Store) RunAccounts(ctx context.Context, fn func(companyRepo repository.CompanyRepository, userRepo repository.UserRepository) error) error {
	return s.inTx(ctx, func(r Repos) error {
		return fn(r.Companies, r.Users)
	})
}

func (s *Store) inTx(ctx context.Context, fn func(Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(s.repos(true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	seq        int64
	order      map[string]int64
	companies  map[string]entity.Company
	users      map[string]entity.User
	clients    map[string]entity.Client
	categories map[string]entity.Category
	products   map[string]entity.Product
	stock      map[string]entity.Stock
	movements  []entity.StockMovement
	sales      map[string]entity.Sale
	documents  map[string]entity.Document
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		seq:        s.seq,
		order:      copyMap(s.order),
		companies:  copyMap(s.companies),
		users:      copyMap(s.users),
		clients:    copyMap(s.clients),
		categories: copyMap(s.categories),
		products:   copyMap(s.products),
		stock:      copyMap(s.stock),
		movements:  append([]entity.StockMovement(nil), s.movements...),
		sales:      make(map[string]entity.Sale, len(s.sales)),
		documents:  make(map[string]entity.Document, len(s.documents)),
	}
	for k, v := range s.sales {
		snap.sales[k] = cloneSale(v)
	}
	for k, v := range s.documents {
		snap.documents[k] = cloneDocument(v)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.seq = snap.seq
	s.order = snap.order
	s.companies = snap.companies
	s.users = snap.users
	s.clients = snap.clients
	s.categories = snap.categories
	s.products = snap.products
	s.stock = snap.stock
	s.movements = snap.movements
	s.sales = snap.sales
	s.documents = snap.documents
}

// ── Helpers ──

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSale(s entity.Sale) entity.Sale {
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	s.Client = nil
	return s
}

func cloneDocument(d entity.Document) entity.Document {
	d.Items = append([]entity.DocumentItem(nil), d.Items...)
	d.Client = nil
	if d.CAEExpiresAt != nil {
		t := *d.CAEExpiresAt
		d.CAEExpiresAt = &t
	}
	return d
}

// track registra el orden de inserción para desempatar fechas iguales.
func (s *Store) track(id string) {
	s.seq++
	s.order[id] = s.seq
}

// before ordena por fecha y, a igual fecha, por orden de inserción.
func (s *Store) before(idA string, a time.Time, idB string, b time.Time) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return s.order[idA] < s.order[idB]
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func sortByName[T any](items []T, name func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(name(items[i])) < strings.ToLower(name(items[j]))
	})
}
