// Package bot implements the conversational storefront: menu navigation,
// balance queries and the purchase confirmation flow.
package bot

import (
	"context"

	"github.com/google/uuid"

	tg "github.com/m3rciful/storebot/core/telegram"
	"github.com/m3rciful/storebot/core/telegram/callbacks"
	"github.com/m3rciful/storebot/core/telegram/commands"
	"github.com/m3rciful/storebot/internal/models"
	"github.com/m3rciful/storebot/internal/service"
)

// AccountStore resolves customer accounts, creating them on first contact.
type AccountStore interface {
	FindOrCreateByTelegramID(ctx context.Context, telegramID int64, username string) (*models.User, error)
}

// CategoryLister lists storefront categories.
type CategoryLister interface {
	List(ctx context.Context) ([]models.Category, error)
}

// ProductReader reads products for menu rendering.
type ProductReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProductWithCategory, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error)
}

// Purchaser executes a purchase on behalf of an account.
type Purchaser interface {
	Purchase(ctx context.Context, userID, productID uuid.UUID) (*service.Receipt, error)
}

// Bot bundles the storefront handlers over their dependencies.
type Bot struct {
	accounts   AccountStore
	categories CategoryLister
	products   ProductReader
	purchases  Purchaser
}

// New wires the bot handlers.
func New(accounts AccountStore, categories CategoryLister, products ProductReader, purchases Purchaser) *Bot {
	return &Bot{
		accounts:   accounts,
		categories: categories,
		products:   products,
		purchases:  purchases,
	}
}

// Register binds all commands, button labels and callback actions.
func (b *Bot) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     b.Start,
		Description: "Open the store menu",
	})

	reg.RegisterText(labelCheckBalance, b.CheckBalance)
	reg.RegisterText(labelAccountInfo, b.AccountInfo)
	reg.RegisterText(labelBrowseProducts, b.BrowseProducts)
	reg.SetTextFallback(b.UnknownText)

	_ = reg.RegisterCallback(callbacks.KindCategory, b.OnCategory)
	_ = reg.RegisterCallback(callbacks.KindBuyProduct, b.OnBuyProduct)
	_ = reg.RegisterCallback(callbacks.KindConfirm, b.OnConfirm)
	_ = reg.RegisterCallback(callbacks.KindCancel, b.OnCancel)
}
