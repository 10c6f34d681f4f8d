package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/m3rciful/storebot/internal/models"
	"github.com/m3rciful/storebot/internal/store"
)

type fakeAccounts struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeAccounts) GetForUpdate(_ context.Context, _ *sqlx.Tx, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeAccounts) DebitBalance(_ context.Context, _ *sqlx.Tx, id uuid.UUID, amount int64) (int64, error) {
	u, ok := f.users[id]
	if !ok || u.Balance < amount {
		return 0, store.ErrNotFound
	}
	u.Balance -= amount
	return u.Balance, nil
}

type fakeProducts struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeProducts) GetForUpdate(_ context.Context, _ *sqlx.Tx, id uuid.UUID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	cp.Emails = append(pq.StringArray{}, p.Emails...)
	return &cp, nil
}

func (f *fakeProducts) SetEmails(_ context.Context, _ *sqlx.Tx, id uuid.UUID, emails pq.StringArray) error {
	p, ok := f.products[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Emails = emails
	return nil
}

func newTestService(users *fakeAccounts, products *fakeProducts) *PurchaseService {
	return &PurchaseService{
		users:    users,
		products: products,
		runTx: func(_ context.Context, fn func(tx *sqlx.Tx) error) error {
			return fn(nil)
		},
	}
}

func seed(balance int64, cost int64, emails ...string) (*fakeAccounts, *fakeProducts, uuid.UUID, uuid.UUID) {
	userID := uuid.New()
	productID := uuid.New()
	users := &fakeAccounts{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, TelegramID: 42, UniqueID: "USER-1-1", Username: "alice", Balance: balance},
	}}
	products := &fakeProducts{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Streaming Plus", Cost: cost, Password: "hunter2", Emails: pq.StringArray(emails)},
	}}
	return users, products, userID, productID
}

func TestPurchaseDebitsAndPopsOldestUnit(t *testing.T) {
	users, products, userID, productID := seed(500, 150, "a@x.com", "b@x.com")
	svc := newTestService(users, products)

	receipt, err := svc.Purchase(context.Background(), userID, productID)
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}

	if receipt.Email != "a@x.com" {
		t.Errorf("email = %q, want a@x.com", receipt.Email)
	}
	if receipt.Password != "hunter2" {
		t.Errorf("password = %q, want hunter2", receipt.Password)
	}
	if receipt.NewBalance != 350 {
		t.Errorf("new balance = %d, want 350", receipt.NewBalance)
	}
	if got := users.users[userID].Balance; got != 350 {
		t.Errorf("stored balance = %d, want 350", got)
	}
	pool := products.products[productID].Emails
	if len(pool) != 1 || pool[0] != "b@x.com" {
		t.Errorf("pool = %v, want [b@x.com]", pool)
	}
}

func TestPurchaseEmptyPoolFailsWithoutDebit(t *testing.T) {
	users, products, userID, productID := seed(500, 150)
	svc := newTestService(users, products)

	_, err := svc.Purchase(context.Background(), userID, productID)
	if !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("err = %v, want ErrProductUnavailable", err)
	}
	if got := users.users[userID].Balance; got != 500 {
		t.Errorf("balance mutated to %d on failed purchase", got)
	}
}

func TestPurchaseEmptyPoolWinsOverInsufficientFunds(t *testing.T) {
	users, products, userID, productID := seed(10, 150)
	svc := newTestService(users, products)

	_, err := svc.Purchase(context.Background(), userID, productID)
	if !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("err = %v, want ErrProductUnavailable", err)
	}
}

func TestPurchaseInsufficientFundsLeavesPoolIntact(t *testing.T) {
	users, products, userID, productID := seed(100, 150, "a@x.com")
	svc := newTestService(users, products)

	_, err := svc.Purchase(context.Background(), userID, productID)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if got := len(products.products[productID].Emails); got != 1 {
		t.Errorf("pool size = %d, want 1", got)
	}
	if got := users.users[userID].Balance; got != 100 {
		t.Errorf("balance = %d, want 100", got)
	}
}

func TestPurchaseExactBalanceSucceeds(t *testing.T) {
	users, products, userID, productID := seed(150, 150, "a@x.com")
	svc := newTestService(users, products)

	receipt, err := svc.Purchase(context.Background(), userID, productID)
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if receipt.NewBalance != 0 {
		t.Errorf("new balance = %d, want 0", receipt.NewBalance)
	}
}

func TestPurchaseLastUnitThenUnavailable(t *testing.T) {
	users, products, userID, productID := seed(1000, 150, "only@x.com")
	svc := newTestService(users, products)

	receipt, err := svc.Purchase(context.Background(), userID, productID)
	if err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	if receipt.Email != "only@x.com" {
		t.Errorf("email = %q, want only@x.com", receipt.Email)
	}

	_, err = svc.Purchase(context.Background(), userID, productID)
	if !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("second purchase err = %v, want ErrProductUnavailable", err)
	}
	if got := users.users[userID].Balance; got != 850 {
		t.Errorf("balance = %d, want 850 after one successful purchase", got)
	}
}

func TestPurchaseUnknownProduct(t *testing.T) {
	users, products, userID, _ := seed(500, 150, "a@x.com")
	svc := newTestService(users, products)

	_, err := svc.Purchase(context.Background(), userID, uuid.New())
	if !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("err = %v, want ErrProductUnavailable", err)
	}
}
