package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// Supported treasury currencies. USD is the primary budget currency;
// CDF amounts are normalized into USD before budget accounting.
const (
	CurrencyUSD = "USD"
	CurrencyCDF = "CDF"
)
