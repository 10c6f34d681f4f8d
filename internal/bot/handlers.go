package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/storebot/core/logger"
	"github.com/m3rciful/storebot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/storebot/core/telegram/helpers"
	"github.com/m3rciful/storebot/internal/models"
	"github.com/m3rciful/storebot/internal/service"
	"github.com/m3rciful/storebot/internal/store"
)

// Start resolves or creates the account and presents the main menu.
func (b *Bot) Start(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user, err := b.resolveUser(ctx, c)
	if err != nil {
		return err
	}
	return tghelpers.SendText(c, welcomeMessage(user.Balance), &tele.SendOptions{
		ReplyMarkup: mainMenuKeyboard(),
	})
}

// CheckBalance replies with the current points balance.
func (b *Bot) CheckBalance(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user, err := b.resolveUser(ctx, c)
	if err != nil {
		return err
	}
	return tghelpers.SendText(c, balanceMessage(user.Balance))
}

// AccountInfo replies with the account card.
func (b *Bot) AccountInfo(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user, err := b.resolveUser(ctx, c)
	if err != nil {
		return err
	}
	return tghelpers.SendMDV2(c, accountInfoMessage(user))
}

// BrowseProducts lists categories as an inline keyboard.
func (b *Bot) BrowseProducts(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	cats, err := b.categories.List(ctx)
	if err != nil {
		_ = tghelpers.SendText(c, msgGenericError)
		return fmt.Errorf("list categories: %w", err)
	}
	return tghelpers.SendText(c, msgSelectCategory, &tele.SendOptions{
		ReplyMarkup: categoryKeyboard(cats),
	})
}

// OnCategory lists the products of the selected category.
func (b *Bot) OnCategory(c tele.Context, action callbacks.Action) error {
	ctx := tghelpers.BuildContext(c)
	categoryID, err := uuid.Parse(action.ID)
	if err != nil {
		return tghelpers.SendText(c, msgGenericError)
	}

	products, err := b.products.ListByCategory(ctx, categoryID)
	if err != nil {
		_ = tghelpers.SendText(c, msgGenericError)
		return fmt.Errorf("list products: %w", err)
	}
	return tghelpers.SendText(c, msgSelectProduct, &tele.SendOptions{
		ReplyMarkup: productKeyboard(products),
	})
}

// OnBuyProduct issues the purchase confirmation prompt.
func (b *Bot) OnBuyProduct(c tele.Context, action callbacks.Action) error {
	ctx := tghelpers.BuildContext(c)
	productID, err := uuid.Parse(action.ID)
	if err != nil {
		return tghelpers.SendText(c, msgGenericError)
	}

	product, err := b.products.GetByID(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return tghelpers.SendText(c, msgProductUnavailable)
	}
	if err != nil {
		_ = tghelpers.SendText(c, msgGenericError)
		return fmt.Errorf("get product: %w", err)
	}
	if !product.InStock() {
		return tghelpers.SendText(c, msgProductUnavailable)
	}

	return tghelpers.SendHTML(c,
		confirmationMessage(product.Name, product.Cost),
		confirmationKeyboard(product.ID.String()),
	)
}

// OnConfirm executes the purchase and delivers the credential.
func (b *Bot) OnConfirm(c tele.Context, action callbacks.Action) error {
	ctx := tghelpers.BuildContext(c)
	productID, err := uuid.Parse(action.ID)
	if err != nil {
		return tghelpers.SendText(c, msgGenericError)
	}

	user, err := b.resolveUser(ctx, c)
	if err != nil {
		return err
	}

	receipt, err := b.purchases.Purchase(ctx, user.ID, productID)
	switch {
	case errors.Is(err, service.ErrProductUnavailable):
		return tghelpers.SendText(c, msgProductUnavailable)
	case errors.Is(err, service.ErrInsufficientFunds):
		return tghelpers.SendText(c, msgInsufficientFunds)
	case err != nil:
		_ = tghelpers.SendText(c, msgGenericError)
		return fmt.Errorf("purchase: %w", err)
	}

	return tghelpers.SendHTML(c, receiptMessage(receipt))
}

// UnknownText nudges the customer back to the menu when the message matches
// no button label or command.
func (b *Bot) UnknownText(c tele.Context) error {
	return tghelpers.SendText(c, msgUnknownInput, &tele.SendOptions{
		ReplyMarkup: mainMenuKeyboard(),
	})
}

// OnCancel acknowledges cancellation, leaving all state untouched.
func (b *Bot) OnCancel(c tele.Context, _ callbacks.Action) error {
	return tghelpers.SendText(c, msgPurchaseCanceled)
}

func (b *Bot) resolveUser(ctx context.Context, c tele.Context) (*models.User, error) {
	sender := c.Sender()
	if sender == nil {
		return nil, tghelpers.SendText(c, "Error: Unable to identify user.")
	}
	user, err := b.accounts.FindOrCreateByTelegramID(ctx, sender.ID, sender.Username)
	if err != nil {
		logger.TG.LogAttrs(ctx, slog.LevelError, "user.resolve_failed",
			slog.Int64("user_id", sender.ID),
			slog.String("err", err.Error()),
		)
		_ = tghelpers.SendText(c, msgGenericError)
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return user, nil
}
