package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slug       string    `gorm:"uniqueIndex;size:140"`
	Title      string    `gorm:"size:180"`
	BasePrice  float64   `gorm:"type:decimal(12,2)"`
	Image      string    `gorm:"size:255"`
	CategoryID string    `gorm:"size:60;index"`
	ViewFront  string    `gorm:"size:255"`
	ViewBack   string    `gorm:"size:255"`
	ViewSide   string    `gorm:"size:255"`
	Active     bool      `gorm:"default:true;index"`
	Variants   []Variant
	Images     []ImageRecord
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Variant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Color     string    `gorm:"size:120" json:"color"`
	Size      string    `gorm:"size:40" json:"size"`
	Stock     int       `gorm:"type:int;default:0" json:"-"`
	ImageURL  string    `gorm:"size:255" json:"image"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// AvailableCount is the single accessor for stock; the three legacy feed
// field names are coalesced once at decode time and never re-read.
func (v *Variant) AvailableCount() int { return v.Stock }

// UnmarshalJSON coalesces the legacy supplier fields available/stock/quantity
// into Stock. Feeds populate at most one of them; priority is in that order.
func (v *Variant) UnmarshalJSON(b []byte) error {
	type alias Variant
	aux := struct {
		*alias
		Available *int `json:"available"`
		Stock     *int `json:"stock"`
		Quantity  *int `json:"quantity"`
	}{alias: (*alias)(v)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	switch {
	case aux.Available != nil:
		v.Stock = *aux.Available
	case aux.Stock != nil:
		v.Stock = *aux.Stock
	case aux.Quantity != nil:
		v.Stock = *aux.Quantity
	}
	return nil
}

// ImageRecord is curated product photography, preferred over incidental
// variant photos when resolving viewing angles for a color.
type ImageRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;index"`
	URL       string    `gorm:"size:255"`
	Color     string    `gorm:"size:120"`
	IsMain    bool      `gorm:"default:false"`
	CreatedAt time.Time
}

type ProductFilter struct {
	CategoryID string
	Query      string
	InStock    *bool
	Page       int
	PageSize   int
}
