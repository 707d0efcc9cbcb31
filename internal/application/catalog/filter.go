package catalog

import (
	"strings"

	"autovia-backend/internal/domain"

	"gorm.io/gorm"
)

// Filter is an open set of optional search criteria over the car table.
// Zero values mean "criterion absent": absent criteria are omitted from the
// query entirely, never turned into wildcards or restrictive defaults. All
// supplied criteria combine with AND.
type Filter struct {
	// Term matches title and description, case-insensitive substring.
	Term string
	// City must be one of domain.Cities; an invalid value is dropped, not an error.
	City     string
	MinPrice *int64
	MaxPrice *int64
	// Year is an exact match.
	Year            *int
	RepuveStatus    string
	InsuranceStatus string
	// Sold filters on the is_sold flag; nil returns both sold and unsold.
	Sold *bool
	// Limit caps the row count at the query level (home page "6 most recent").
	// Zero means no cap.
	Limit int
}

// Apply composes the filter onto a listing query. Result order is always
// created_at descending; no other ordering is supported.
func (f Filter) Apply(q *gorm.DB) *gorm.DB {
	if f.Term != "" {
		like := "%" + strings.ToLower(f.Term) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if domain.IsCity(f.City) {
		q = q.Where("city = ?", f.City)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Year != nil {
		q = q.Where("year = ?", *f.Year)
	}
	if domain.IsRepuveStatus(f.RepuveStatus) {
		q = q.Where("repuve_status = ?", f.RepuveStatus)
	}
	if domain.IsInsuranceStatus(f.InsuranceStatus) {
		q = q.Where("insurance_status = ?", f.InsuranceStatus)
	}
	if f.Sold != nil {
		q = q.Where("is_sold = ?", *f.Sold)
	}
	q = q.Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	return q
}
