package bot

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/m3rciful/storebot/internal/models"
	"github.com/m3rciful/storebot/internal/service"
)

func TestWelcomeMessageIncludesBalance(t *testing.T) {
	msg := welcomeMessage(500)
	if !strings.Contains(msg, "Your balance is 500 points") {
		t.Errorf("welcome = %q", msg)
	}
}

func TestAccountInfoEscapesUsername(t *testing.T) {
	u := &models.User{
		TelegramID: 42,
		UniqueID:   "USER-1700000000000-123",
		Username:   "bob_the_builder",
		Balance:    350,
	}
	msg := accountInfoMessage(u)
	if !strings.Contains(msg, `bob\_the\_builder`) {
		t.Errorf("username underscores not escaped: %q", msg)
	}
	if !strings.Contains(msg, "`USER-1700000000000-123`") {
		t.Errorf("unique id not in code span: %q", msg)
	}
}

func TestConfirmationMessageEscapesHTML(t *testing.T) {
	msg := confirmationMessage("Netflix <Premium>", 150)
	if strings.Contains(msg, "<Premium>") {
		t.Errorf("product name not escaped: %q", msg)
	}
	if !strings.Contains(msg, "150 points") {
		t.Errorf("price missing: %q", msg)
	}
}

func TestReceiptMessageDefaultsPassword(t *testing.T) {
	r := &service.Receipt{ProductName: "P", Email: "a@x.com", Password: ""}
	msg := receiptMessage(r)
	if !strings.Contains(msg, "<code>N/A</code>") {
		t.Errorf("empty password not rendered as N/A: %q", msg)
	}

	r.Password = "secret"
	msg = receiptMessage(r)
	if !strings.Contains(msg, "<code>secret</code>") {
		t.Errorf("password missing: %q", msg)
	}
}

func TestProductKeyboardButtons(t *testing.T) {
	products := []models.Product{
		{ID: uuid.New(), Name: "Basic", Cost: 100},
		{ID: uuid.New(), Name: "Premium", Cost: 250},
	}
	markup := productKeyboard(products)
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.InlineKeyboard))
	}
	if got := markup.InlineKeyboard[0][0].Text; got != "Basic - 100 points" {
		t.Errorf("button text = %q", got)
	}
	if !strings.Contains(markup.InlineKeyboard[1][0].Data, products[1].ID.String()) {
		t.Errorf("button data %q does not carry product id", markup.InlineKeyboard[1][0].Data)
	}
}

func TestProductKeyboardEmptyState(t *testing.T) {
	markup := productKeyboard(nil)
	if len(markup.InlineKeyboard) != 1 {
		t.Fatalf("rows = %d, want 1", len(markup.InlineKeyboard))
	}
	if got := markup.InlineKeyboard[0][0].Text; got != msgNoProducts {
		t.Errorf("placeholder text = %q", got)
	}
}

func TestMainMenuKeyboardLabels(t *testing.T) {
	markup := mainMenuKeyboard()
	if len(markup.ReplyKeyboard) != 3 {
		t.Fatalf("rows = %d, want 3", len(markup.ReplyKeyboard))
	}
	want := []string{labelCheckBalance, labelAccountInfo, labelBrowseProducts}
	for i, label := range want {
		if got := markup.ReplyKeyboard[i][0].Text; got != label {
			t.Errorf("row %d label = %q, want %q", i, got, label)
		}
	}
}
