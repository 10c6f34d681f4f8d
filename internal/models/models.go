// Package models defines the persisted entities of the storefront.
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// User is a customer account created lazily on first contact with the bot.
type User struct {
	ID         uuid.UUID `db:"id" json:"id"`
	TelegramID int64     `db:"telegram_id" json:"telegramId"`
	UniqueID   string    `db:"unique_id" json:"uniqueId"`
	Username   string    `db:"username" json:"username"`
	Balance    int64     `db:"balance" json:"balance"`
}

// Category groups products in the storefront menu.
type Category struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
}

// Product is a purchasable credential pool. Emails is the ordered pool of
// units; one entry is consumed per sale, oldest first. Password is shared
// across all units of the product.
type Product struct {
	ID         uuid.UUID      `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	Cost       int64          `db:"cost" json:"cost"`
	Password   string         `db:"password" json:"password"`
	Emails     pq.StringArray `db:"emails" json:"emails"`
	CategoryID uuid.UUID      `db:"category_id" json:"categoryId"`
}

// InStock reports whether the product has at least one unit left.
func (p *Product) InStock() bool {
	return len(p.Emails) > 0
}

// ProductWithCategory is a product row joined with its category name for
// list endpoints that resolve the category inline.
type ProductWithCategory struct {
	Product
	CategoryName string `db:"category_name" json:"categoryName"`
}
