package bot

import (
	"fmt"
	"html"

	"github.com/m3rciful/storebot/core/telegram/format"
	"github.com/m3rciful/storebot/internal/models"
	"github.com/m3rciful/storebot/internal/service"
)

const (
	labelCheckBalance   = "📊 Check Balance"
	labelAccountInfo    = "👤 My Account Info"
	labelBrowseProducts = "🛒 Browse Products"

	msgSelectCategory     = "📂 Select a category:"
	msgSelectProduct      = "🛒 Select a product:"
	msgProductUnavailable = "❌ This product is no longer available."
	msgInsufficientFunds  = "❌ You do not have enough points for this purchase."
	msgPurchaseCanceled   = "❌ Purchase canceled."
	msgGenericError       = "❌ An error occurred. Please try again later."
	msgNoProducts         = "No products available for this category"
	msgUnknownInput       = "🤔 I didn't recognize that. Use the menu below to choose an option:"
)

func welcomeMessage(balance int64) string {
	return fmt.Sprintf("👋 Welcome to the Store Bot! Your balance is %d points.\nUse the menu below to choose an option:", balance)
}

func balanceMessage(balance int64) string {
	return fmt.Sprintf("💰 Your balance is %d points.", balance)
}

// accountInfoMessage renders the MarkdownV2 account card. Values land inside
// code spans except the username, which is escaped for the plain-text slot.
func accountInfoMessage(u *models.User) string {
	return fmt.Sprintf(
		"👤 *Account Information:*\n\n• *ID*: `%d`\n• *Unique ID*: `%s`\n• *Username*: @%s\n• *Balance*: `%d points`",
		u.TelegramID,
		u.UniqueID,
		format.EscapeMarkdownV2(u.Username),
		u.Balance,
	)
}

func confirmationMessage(name string, cost int64) string {
	return fmt.Sprintf(
		"🛒 You are about to purchase <b>%s</b> for <b>%d points</b>.\nDo you confirm this purchase?",
		html.EscapeString(name), cost,
	)
}

func receiptMessage(r *service.Receipt) string {
	password := r.Password
	if password == "" {
		password = "N/A"
	}
	return fmt.Sprintf(
		"✅ <b>Purchase Confirmed!</b>\n\nYou have successfully bought <b>%s</b>.\nHere are your account details:\n\n• <b>Email</b>: <code>%s</code>\n• <b>Password</b>: <code>%s</code>\n\nEnjoy your account!",
		html.EscapeString(r.ProductName),
		html.EscapeString(r.Email),
		html.EscapeString(password),
	)
}
