package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Province is one of the 13 administrative regions a product can be
// listed in. Values outside this set are rejected at the boundary.
type Province string

const (
	ProvinceLowerSilesia     Province = "Lower Silesia"
	ProvinceKuyaviaPomerania Province = "Kuyavia-Pomerania"
	ProvinceLodzkie          Province = "Lodzkie"
	ProvinceLublin           Province = "Lublin"
	ProvinceLubusz           Province = "Lubusz"
	ProvinceLesserPoland     Province = "Lesser Poland"
	ProvinceMasovia          Province = "Masovia"
	ProvinceSubcarpathia     Province = "Subcarpathia"
	ProvincePomerania        Province = "Pomerania"
	ProvinceSilesia          Province = "Silesia"
	ProvinceWarmiaMasuria    Province = "Warmia-Masuria"
	ProvinceGreaterPoland    Province = "Greater Poland"
	ProvinceWestPomerania    Province = "West Pomerania"
)

// Provinces lists every valid province.
var Provinces = []Province{
	ProvinceLowerSilesia,
	ProvinceKuyaviaPomerania,
	ProvinceLodzkie,
	ProvinceLublin,
	ProvinceLubusz,
	ProvinceLesserPoland,
	ProvinceMasovia,
	ProvinceSubcarpathia,
	ProvincePomerania,
	ProvinceSilesia,
	ProvinceWarmiaMasuria,
	ProvinceGreaterPoland,
	ProvinceWestPomerania,
}

// ParseProvince returns the matching Province, or false when the value
// is not a member of the enumeration.
func ParseProvince(value string) (Province, bool) {
	for _, p := range Provinces {
		if string(p) == value {
			return p, true
		}
	}
	return "", false
}

// Product represents a listing owned by its author.
type Product struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"index;type:varchar(50)"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(8,2)"`
	Description  string          `json:"description" gorm:"type:text"`
	Created      time.Time       `json:"created" gorm:"autoCreateTime"`
	Province     Province        `json:"province" gorm:"type:varchar(64)"`
	PhoneNumber  string          `json:"phone_number" gorm:"type:varchar(9)"`
	Image        *string         `json:"image"`
	CategoryName string          `json:"category" gorm:"index;type:varchar(200)"`
	Category     Category        `json:"-" gorm:"foreignKey:CategoryName;references:Name"`
	AuthorID     uint            `json:"-" gorm:"index"`
	Author       User            `json:"-" gorm:"foreignKey:AuthorID"`
}

// OwnedBy reports whether userID is the author of the product. This is
// the sole authorization rule for product mutations; reads are public.
func (p *Product) OwnedBy(userID uint) bool {
	return p.AuthorID == userID
}
