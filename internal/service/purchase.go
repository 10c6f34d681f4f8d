// Package service holds the purchase flow, the one state-mutating business
// operation of the storefront.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/m3rciful/storebot/core/logger"
	"github.com/m3rciful/storebot/internal/models"
	"github.com/m3rciful/storebot/internal/store"
)

var (
	// ErrProductUnavailable is returned when the credential pool is empty.
	ErrProductUnavailable = errors.New("product unavailable")
	// ErrInsufficientFunds is returned when the balance is below the price.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Receipt describes a completed purchase.
type Receipt struct {
	ProductName string
	Email       string
	Password    string
	Price       int64
	NewBalance  int64
}

// AccountLocker is the account surface the purchase flow needs inside a
// transaction.
type AccountLocker interface {
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.User, error)
	DebitBalance(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, amount int64) (int64, error)
}

// ProductLocker is the product surface the purchase flow needs inside a
// transaction.
type ProductLocker interface {
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.Product, error)
	SetEmails(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, emails pq.StringArray) error
}

// PurchaseService executes balance-checked, stock-decrementing purchases.
// The pool pop and the balance debit commit together or not at all.
type PurchaseService struct {
	users    AccountLocker
	products ProductLocker
	runTx    func(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// NewPurchaseService wires the purchase flow over the given database handle.
func NewPurchaseService(db *sqlx.DB, users AccountLocker, products ProductLocker) *PurchaseService {
	return &PurchaseService{
		users:    users,
		products: products,
		runTx: func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
			return store.InTx(ctx, db, fn)
		},
	}
}

// Purchase removes the earliest unit from the product pool and debits the
// account by the product price. Both rows are locked for the duration of the
// transaction, so concurrent attempts on the same product or account
// serialize instead of double-selling.
//
// Stock is checked before funds: an empty pool fails with
// ErrProductUnavailable regardless of the balance.
func (s *PurchaseService) Purchase(ctx context.Context, userID, productID uuid.UUID) (*Receipt, error) {
	var receipt *Receipt

	err := s.runTx(ctx, func(tx *sqlx.Tx) error {
		product, err := s.products.GetForUpdate(ctx, tx, productID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrProductUnavailable
			}
			return err
		}
		if len(product.Emails) == 0 {
			return ErrProductUnavailable
		}

		user, err := s.users.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user.Balance < product.Cost {
			return ErrInsufficientFunds
		}

		email := product.Emails[0]
		remaining := append(pq.StringArray{}, product.Emails[1:]...)
		if err := s.products.SetEmails(ctx, tx, productID, remaining); err != nil {
			return err
		}

		newBalance, err := s.users.DebitBalance(ctx, tx, userID, product.Cost)
		if err != nil {
			// The row was locked with sufficient balance, so a miss here
			// means the account vanished mid-transaction.
			if errors.Is(err, store.ErrNotFound) {
				return ErrInsufficientFunds
			}
			return err
		}

		receipt = &Receipt{
			ProductName: product.Name,
			Email:       email,
			Password:    product.Password,
			Price:       product.Cost,
			NewBalance:  newBalance,
		}

		logger.SVCPurchases.LogAttrs(ctx, slog.LevelInfo, "purchase.completed",
			slog.String("account_id", user.ID.String()),
			slog.String("product_id", product.ID.String()),
			slog.Int64("price", product.Cost),
			slog.Int64("balance", newBalance),
			slog.Int("units_left", len(remaining)),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}
