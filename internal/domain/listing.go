package domain

import (
	"time"

	"gorm.io/gorm"
)

// City values the catalog operates in. Anything else is rejected at write time.
const (
	CityCDMX        = "Ciudad de Mexico"
	CityGuadalajara = "Guadalajara"
)

// REPUVE (national vehicle registry) statuses.
const (
	RepuveClean      = "Limpio"
	RepuveReported   = "Con reporte"
	RepuveUnverified = "No verificado"
)

// Insurance record statuses.
const (
	InsuranceNormal    = "Normal"
	InsuranceTotalLoss = "Perdida total"
	InsuranceSalvage   = "Salvamento"
	InsuranceHeld      = "Retenido por aseguradora"
)

// Paperwork types.
const (
	TitleOriginal   = "Factura original"
	TitleReinvoiced = "Refacturada"
	TitleInsurer    = "Factura de aseguradora"
)

var (
	Cities            = []string{CityCDMX, CityGuadalajara}
	RepuveStatuses    = []string{RepuveClean, RepuveReported, RepuveUnverified}
	InsuranceStatuses = []string{InsuranceNormal, InsuranceTotalLoss, InsuranceSalvage, InsuranceHeld}
	TitleTypes        = []string{TitleOriginal, TitleReinvoiced, TitleInsurer}
)

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func IsCity(v string) bool            { return contains(Cities, v) }
func IsRepuveStatus(v string) bool    { return contains(RepuveStatuses, v) }
func IsInsuranceStatus(v string) bool { return contains(InsuranceStatuses, v) }
func IsTitleType(v string) bool       { return contains(TitleTypes, v) }

// Listing is a vehicle record offered for sale. Identified publicly by its
// slug (immutable once assigned), internally by the auto-increment id.
type Listing struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"not null" json:"title"`
	Price           int64     `gorm:"not null" json:"price"`
	Year            int       `gorm:"not null" json:"year"`
	Mileage         int64     `gorm:"not null" json:"mileage"`
	City            string    `gorm:"not null" json:"city"`
	Description     string    `gorm:"type:text" json:"description"`
	VIN             string    `gorm:"column:vin" json:"vin"`
	Owners          *int      `json:"owners"`
	RepuveStatus    string    `gorm:"column:repuve_status;default:'No verificado'" json:"repuve_status"`
	InsuranceStatus string    `gorm:"column:insurance_status;default:'Normal'" json:"insurance_status"`
	TitleType       string    `gorm:"column:title_type;default:'Factura original'" json:"title_type"`
	NotesHistory    string    `gorm:"column:notes_history;type:text" json:"notes_history"`
	Slug            string    `gorm:"uniqueIndex;not null" json:"slug"`
	IsSold          bool      `gorm:"column:is_sold;not null;default:false" json:"is_sold"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Photos []Photo `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
}

func (Listing) TableName() string {
	return "cars"
}

// BeforeSave rejects out-of-enum values before they hit a CHECK constraint,
// so callers get a ValidationError instead of a driver error.
func (l *Listing) BeforeSave(tx *gorm.DB) error {
	if !IsCity(l.City) {
		return &ValidationError{Field: "city", Message: "city must be one of: " + CityCDMX + ", " + CityGuadalajara}
	}
	if l.RepuveStatus != "" && !IsRepuveStatus(l.RepuveStatus) {
		return &ValidationError{Field: "repuve_status", Message: "invalid repuve_status"}
	}
	if l.InsuranceStatus != "" && !IsInsuranceStatus(l.InsuranceStatus) {
		return &ValidationError{Field: "insurance_status", Message: "invalid insurance_status"}
	}
	if l.TitleType != "" && !IsTitleType(l.TitleType) {
		return &ValidationError{Field: "title_type", Message: "invalid title_type"}
	}
	return nil
}

// CoverPhoto returns the photo shown in list views: the one flagged as cover,
// falling back to the lowest id. Nil when the listing has no photos.
func (l *Listing) CoverPhoto() *Photo {
	var lowest *Photo
	for i := range l.Photos {
		p := &l.Photos[i]
		if p.IsCover {
			return p
		}
		if lowest == nil || p.ID < lowest.ID {
			lowest = p
		}
	}
	return lowest
}
