package dto

import "time"

// UpdateCompanyRequest perfil editable de la empresa. La CUIT no se modifica.
type UpdateCompanyRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	TaxCondition *string `json:"tax_condition" validate:"omitempty,oneof=RESPONSABLE_INSCRIPTO MONOTRIBUTO EXENTO"`
	Address      *string `json:"address" validate:"omitempty,max=300"`
	Phone        *string `json:"phone" validate:"omitempty,max=50"`
	Email        *string `json:"email" validate:"omitempty,email"`
	PointOfSale  *int    `json:"point_of_sale" validate:"omitempty,min=1,max=99999"`
}

// CompanyResponse salida de la empresa.
type CompanyResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CUIT         string    `json:"cuit"`
	TaxCondition string    `json:"tax_condition"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	PointOfSale  int       `json:"point_of_sale"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
