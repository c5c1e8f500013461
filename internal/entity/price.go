package entity

// PriceEntry is one row of a named price list.
type PriceEntry struct {
	CatalogName string  `json:"catalog"`
	ItemID      ItemID  `json:"item_id"`
	Price       float64 `json:"price"`
}

/*
Mysql Table

CREATE TABLE prices (
	catalog_name VARCHAR(64) NOT NULL,
	item_id VARCHAR(32) NOT NULL,
	price DOUBLE NOT NULL,
	PRIMARY KEY (catalog_name, item_id)
);

*/
