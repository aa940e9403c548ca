package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mostrador-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para estadísticas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesSummary total y cantidad de ventas COMPLETED desde since.
func (r *AnalyticsRepo) GetSalesSummary(ctx context.Context, companyID string, since time.Time) (repository.SalesSummary, error) {
	var out repository.SalesSummary
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM sales
		WHERE company_id = $1 AND status = 'COMPLETED' AND created_at >= $2`,
		companyID, since,
	).Scan(&out.Total, &out.Count)
	if err != nil {
		return out, fmt.Errorf("analytics.GetSalesSummary: %w", err)
	}
	return out, nil
}

// GetPaidInvoicesTotal suma facturas PAID desde since.
func (r *AnalyticsRepo) GetPaidInvoicesTotal(ctx context.Context, companyID string, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0)
		FROM documents
		WHERE company_id = $1 AND type = 'INVOICE' AND status = 'PAID' AND created_at >= $2`,
		companyID, since,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("analytics.GetPaidInvoicesTotal: %w", err)
	}
	return total, nil
}

// GetTopProducts ranking por unidades vendidas en ventas COMPLETED. limit 0 = sin límite.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, companyID string, since time.Time, limit int) ([]repository.TopProductResult, error) {
	const query = `
	SELECT
	    p.id,
	    p.code,
	    p.name,
	    SUM(si.quantity)  AS quantity_sold,
	    SUM(si.subtotal)  AS revenue
	FROM sales s
	JOIN sale_items si ON si.sale_id = s.id
	JOIN products   p  ON p.id       = si.product_id
	WHERE s.company_id = $1
	  AND s.status     = 'COMPLETED'
	  AND s.created_at >= $2
	GROUP BY p.id, p.code, p.name
	ORDER BY quantity_sold DESC, p.name ASC
	LIMIT NULLIF($3::int, 0)`

	rows, err := r.q.Query(ctx, query, companyID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts: %w", err)
	}
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.TopProductResult, error) {
		var t repository.TopProductResult
		err := row.Scan(&t.ProductID, &t.Code, &t.Name, &t.QuantitySold, &t.Revenue)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts scan: %w", err)
	}
	return results, nil
}
