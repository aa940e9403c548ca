package dto

import (
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/domain/repository"
	"github.com/jhoicas/mostrador-api/pkg/afip"
)

// FromCompany convierte la entidad en respuesta.
func FromCompany(c *entity.Company) CompanyResponse {
	return CompanyResponse{
		ID:           c.ID,
		Name:         c.Name,
		CUIT:         c.CUIT,
		TaxCondition: c.TaxCondition,
		Address:      c.Address,
		Phone:        c.Phone,
		Email:        c.Email,
		PointOfSale:  c.PointOfSale,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// FromUser convierte la entidad en respuesta (sin hash de password).
func FromUser(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func FromClient(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:           c.ID,
		CompanyID:    c.CompanyID,
		Name:         c.Name,
		TaxID:        c.TaxID,
		DocumentType: c.DocumentType,
		TaxCondition: c.TaxCondition,
		Email:        c.Email,
		Phone:        c.Phone,
		Address:      c.Address,
		Balance:      c.Balance,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func FromCategory(c *entity.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}

// FromProduct convierte el producto; stock puede ser nil.
func FromProduct(p *entity.Product, stock *entity.Stock) ProductResponse {
	out := ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		CategoryID:  p.CategoryID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Cost:        p.Cost,
		Unit:        p.Unit,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if stock != nil {
		s := FromStock(stock)
		out.Stock = &s
	}
	return out
}

func FromStock(s *entity.Stock) StockResponse {
	return StockResponse{
		ProductID:   s.ProductID,
		Quantity:    s.Quantity,
		MinQuantity: s.MinQuantity,
		MaxQuantity: s.MaxQuantity,
		Location:    s.Location,
		LowStock:    s.IsLow(),
		UpdatedAt:   s.UpdatedAt,
	}
}

// FromStockLevel agrega los datos del producto a la existencia.
func FromStockLevel(l *entity.StockLevel) StockResponse {
	out := FromStock(&l.Stock)
	out.ProductCode = l.ProductCode
	out.ProductName = l.ProductName
	out.Unit = l.Unit
	return out
}

func FromMovement(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		Type:             m.Type,
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Reason:           m.Reason,
		Reference:        m.Reference,
		UserID:           m.UserID,
		CreatedAt:        m.CreatedAt,
	}
}

// FromSale convierte la venta con sus ítems y, si está cargado, el cliente.
func FromSale(s *entity.Sale) SaleResponse {
	out := SaleResponse{
		ID:            s.ID,
		CompanyID:     s.CompanyID,
		Number:        s.Number,
		ClientID:      s.ClientID,
		UserID:        s.UserID,
		Subtotal:      s.Subtotal,
		Tax:           s.Tax,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		CreatedAt:     s.CreatedAt,
	}
	if s.Client != nil {
		c := FromClient(s.Client)
		out.Client = &c
	}
	if len(s.Items) > 0 {
		out.Items = make([]SaleItemResponse, 0, len(s.Items))
		for _, it := range s.Items {
			out.Items = append(out.Items, SaleItemResponse{
				ID:          it.ID,
				ProductID:   it.ProductID,
				ProductCode: it.ProductCode,
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				ListPrice:   it.ListPrice,
				Subtotal:    it.Subtotal,
			})
		}
	}
	return out
}

// FromDocument convierte el comprobante con sus ítems y, si está cargado, el cliente.
func FromDocument(d *entity.Document) DocumentResponse {
	out := DocumentResponse{
		ID:            d.ID,
		CompanyID:     d.CompanyID,
		Type:          d.Type,
		Number:        d.Number,
		InvoiceLetter: d.InvoiceLetter,
		VoucherCode:   afip.InvoiceTypeCodes[d.InvoiceLetter],
		ClientID:      d.ClientID,
		Subtotal:      d.Subtotal,
		Tax:           d.Tax,
		Total:         d.Total,
		Notes:         d.Notes,
		Status:        d.Status,
		CAE:           d.CAE,
		CAEExpiresAt:  d.CAEExpiresAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.Client != nil {
		c := FromClient(d.Client)
		out.Client = &c
	}
	if len(d.Items) > 0 {
		out.Items = make([]DocumentItemResponse, 0, len(d.Items))
		for _, it := range d.Items {
			out.Items = append(out.Items, DocumentItemResponse{
				ID:          it.ID,
				Position:    it.Position,
				ProductID:   it.ProductID,
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				Subtotal:    it.Subtotal,
			})
		}
	}
	return out
}

func FromTopProduct(r repository.TopProductResult) TopProductDTO {
	return TopProductDTO{
		ProductID:    r.ProductID,
		Code:         r.Code,
		Name:         r.Name,
		QuantitySold: r.QuantitySold,
		Revenue:      r.Revenue,
	}
}
