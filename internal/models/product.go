package models

import "github.com/shopspring/decimal"

// Product is the authoritative catalog record for a sellable item. The
// orders service reads price/stock/name and decrements stock at placement;
// catalog management owns everything else.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}
