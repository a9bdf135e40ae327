package models

// LineItem is one purchasable line of a transaction draft. Amount is always
// Qty times UnitPrice, recomputed on every change; it is never edited
// directly. Items belong to exactly one draft.
type LineItem struct {
	ID            string  `gorm:"primaryKey;size:36" json:"id"`
	TransactionID uint    `gorm:"not null;index" json:"transaction_id"`
	Name          string  `gorm:"size:255" json:"name"`
	Qty           float64 `json:"qty"`
	UnitPrice     float64 `json:"unit_price"`
	Amount        float64 `json:"amount"`
	Selected      bool    `gorm:"default:true" json:"selected"`

	// Relationships
	Transaction Transaction `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for LineItem
func (LineItem) TableName() string {
	return "line_items"
}
