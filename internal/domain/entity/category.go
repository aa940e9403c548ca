package entity

import "time"

// Category agrupa productos. El nombre es único por empresa.
type Category struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
