package models

import (
	"time"
)

// CategoryDefault is the sentinel a fresh draft carries. A category equal to
// this value counts as "not yet set" for the merge policy; anything else is
// treated as user-chosen.
const CategoryDefault = "other"

// Transaction is an editable transaction draft: the reconciliation target
// that OCR output, parsed-email output, and user edits all merge into.
// Form-state fields are strings so "empty" and "user typed something" stay
// distinguishable; money fields hold fixed 2-decimal strings written at
// populate time.
type Transaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Date            string    `gorm:"size:10" json:"date"`
	Vendor          string    `gorm:"size:255" json:"vendor"`
	Amount          string    `gorm:"size:20" json:"amount"`
	Subtotal        string    `gorm:"size:20" json:"subtotal"`
	Tax             string    `gorm:"size:20" json:"tax"`
	Tip             string    `gorm:"size:20" json:"tip"`
	Currency        string    `gorm:"size:3" json:"currency"`
	Category        string    `gorm:"size:50;default:other" json:"category"`
	PaymentMethod   string    `gorm:"size:20" json:"payment_method"`
	OrderNumber     string    `gorm:"size:50" json:"order_number"`
	Notes           string    `json:"notes"`
	BusinessPurpose string    `json:"business_purpose"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Items         []LineItem     `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	EvidenceFiles []EvidenceFile `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"evidence_files,omitempty"`
}

// TableName returns the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionListItem is a lightweight version for list views
type TransactionListItem struct {
	ID            uint      `json:"id"`
	Date          string    `json:"date"`
	Vendor        string    `json:"vendor"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	Category      string    `json:"category"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
	ItemCount     int       `json:"item_count"`
}
