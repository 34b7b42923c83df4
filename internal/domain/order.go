package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusDone       OrderStatus = "done"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order is the record created on constructor submit. It is immutable from the
// constructor's perspective once persisted; the back-office owns it afterwards.
type Order struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Status       OrderStatus `gorm:"type:varchar(30);index" json:"status"`
	ProductID    uuid.UUID   `gorm:"type:uuid;index" json:"product_id"`
	ProductTitle string      `gorm:"size:180" json:"product_title"`
	Color        string      `gorm:"size:120" json:"color"`
	Qty          int         `gorm:"not null" json:"qty"`
	UnitPrice    float64     `gorm:"type:decimal(12,2)" json:"unit_price"`
	Total        float64     `gorm:"type:decimal(12,2)" json:"total"`
	Method       string      `gorm:"size:40" json:"method"`
	Placement    string      `gorm:"size:40" json:"placement"`
	PrintSize    string      `gorm:"size:40" json:"print_size"`
	PreviewPNG   string      `gorm:"type:text" json:"preview_png"`
	Notified     bool        `gorm:"not null;default:false" json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"-"`
}

type OrderFilter struct {
	Status   OrderStatus
	Page     int
	PageSize int
}

// SourceFile is an original uploaded design asset, carried through to the
// operator notification untouched.
type SourceFile struct {
	Name string
	Data []byte
}

// OperatorNotification is the payload dispatched to a human operator after an
// order is recorded.
type OperatorNotification struct {
	Order       Order
	PreviewPNG  []byte
	SourceFiles []SourceFile
}
