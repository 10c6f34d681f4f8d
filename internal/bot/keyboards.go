package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/storebot/core/telegram/callbacks"
	"github.com/m3rciful/storebot/core/telegram/keyboard"
	"github.com/m3rciful/storebot/internal/models"
)

func mainMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{labelCheckBalance},
		[]string{labelAccountInfo},
		[]string{labelBrowseProducts},
	)
}

func categoryKeyboard(cats []models.Category) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(cats))
	for _, cat := range cats {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   cat.Name,
			Unique: string(callbacks.KindCategory),
			Data:   cat.ID.String(),
		})
	}
	return keyboard.InlineButtons(buttons)
}

func productKeyboard(products []models.Product) *tele.ReplyMarkup {
	if len(products) == 0 {
		return keyboard.InlineTextRow(msgNoProducts, "noop")
	}
	buttons := make([]keyboard.InlineBtn, 0, len(products))
	for _, p := range products {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   fmt.Sprintf("%s - %d points", p.Name, p.Cost),
			Unique: string(callbacks.KindBuyProduct),
			Data:   p.ID.String(),
		})
	}
	return keyboard.InlineButtons(buttons)
}

func confirmationKeyboard(productID string) *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "✅ Confirm", Unique: string(callbacks.KindConfirm), Data: productID},
		{Text: "❌ Cancel", Unique: string(callbacks.KindCancel), Data: productID},
	})
}
