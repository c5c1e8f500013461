package entity

import "time"

// ItemID identifies a purchasable good, e.g. "A" or "K".
type ItemID string

// CheckoutRequest is the input of a single checkout pass.
type CheckoutRequest struct {
	CatalogName   string   `json:"catalog"`
	Items         []ItemID `json:"items"`
	IdempotentKey string   `json:"idempotent_key,omitempty"`
}

// Application records one extraction made by a discount rule.
type Application struct {
	Rule   string   `json:"rule"`
	Items  []ItemID `json:"items"`
	Amount float64  `json:"amount"` // discounted value of the extracted items
}

// Receipt is the outcome of a checkout.
type Receipt struct {
	ID          string        `json:"id"`
	CatalogName string        `json:"catalog"`
	Items       []ItemID      `json:"items"`
	Applied     []Application `json:"applied"`
	Discounted  float64       `json:"discounted"` // sum of all rule extractions
	Remainder   float64       `json:"remainder"`  // full-price liquidation of what the rules left
	Total       float64       `json:"total"`
	Sold        bool          `json:"sold"`
	Display     string        `json:"display"` // e.g. "Sold for 180.90"
	CreatedAt   time.Time     `json:"created_at"`
}

/*
Mysql Table

CREATE TABLE receipts (
	id VARCHAR(36) PRIMARY KEY,
	catalog_name VARCHAR(64) NOT NULL,
	items TEXT NOT NULL,
	discounted DOUBLE NOT NULL,
	remainder DOUBLE NOT NULL,
	total DOUBLE NOT NULL,
	sold BOOLEAN NOT NULL,
	display VARCHAR(64) NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE receipt_applications (
	id INT AUTO_INCREMENT PRIMARY KEY,
	receipt_id VARCHAR(36) NOT NULL REFERENCES receipts(id),
	rule VARCHAR(64) NOT NULL,
	items TEXT NOT NULL,
	amount DOUBLE NOT NULL
);

*/
