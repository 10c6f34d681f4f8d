package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/storebot/core/logger"
	"github.com/m3rciful/storebot/internal/models"
)

const defaultBalance = 500

// UserStore persists customer accounts.
type UserStore struct {
	db *sqlx.DB
}

// NewUserStore returns a UserStore bound to the given database handle.
func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// List returns all accounts.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.SelectContext(ctx, &users,
		`SELECT id, telegram_id, unique_id, username, balance FROM users ORDER BY unique_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetByID fetches one account by primary key.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u,
		`SELECT id, telegram_id, unique_id, username, balance FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// FindOrCreateByTelegramID resolves the account for a Telegram sender,
// creating it with the default starting balance on first contact.
func (s *UserStore) FindOrCreateByTelegramID(ctx context.Context, telegramID int64, username string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u,
		`SELECT id, telegram_id, unique_id, username, balance FROM users WHERE telegram_id = $1`, telegramID)
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	u = models.User{
		ID:         uuid.New(),
		TelegramID: telegramID,
		UniqueID:   newUniqueID(),
		Username:   username,
		Balance:    defaultBalance,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, telegram_id, unique_id, username, balance)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (telegram_id) DO NOTHING`,
		u.ID, u.TelegramID, u.UniqueID, u.Username, u.Balance)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Re-read to cover the conflict path where a concurrent insert won.
	err = s.db.GetContext(ctx, &u,
		`SELECT id, telegram_id, unique_id, username, balance FROM users WHERE telegram_id = $1`, telegramID)
	if err != nil {
		return nil, fmt.Errorf("find user after create: %w", err)
	}

	logger.SVCUsers.LogAttrs(ctx, slog.LevelInfo, "user.created",
		slog.String("account_id", u.ID.String()),
		slog.Int64("user_id", u.TelegramID),
		slog.Int64("balance", u.Balance),
	)
	return &u, nil
}

// Update replaces the mutable account fields.
func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET username = $2, balance = $3 WHERE id = $1`,
		u.ID, u.Username, u.Balance)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res)
}

// UpdateBalance sets the balance of one account.
func (s *UserStore) UpdateBalance(ctx context.Context, id uuid.UUID, balance int64) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u,
		`UPDATE users SET balance = $2 WHERE id = $1
		 RETURNING id, telegram_id, unique_id, username, balance`,
		id, balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}
	return &u, nil
}

// Delete removes an account.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res)
}

// GetForUpdate locks the account row. Call within a transaction.
func (s *UserStore) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := tx.GetContext(ctx, &u,
		`SELECT id, telegram_id, unique_id, username, balance FROM users WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock user: %w", err)
	}
	return &u, nil
}

// DebitBalance deducts amount inside the supplied transaction and returns the
// new balance. The WHERE clause guards against going negative.
func (s *UserStore) DebitBalance(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, amount int64) (int64, error) {
	var newBalance int64
	err := tx.GetContext(ctx, &newBalance,
		`UPDATE users SET balance = balance - $2
		 WHERE id = $1 AND balance >= $2
		 RETURNING balance`,
		id, amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("debit balance: %w", err)
	}
	return newBalance, nil
}

func newUniqueID() string {
	return fmt.Sprintf("USER-%d-%d", time.Now().UnixMilli(), rand.Intn(10000))
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
