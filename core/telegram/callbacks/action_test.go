package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name    string
		cb      *tele.Callback
		key     string
		payload string
	}{
		{"nil", nil, "", ""},
		{"unique set", &tele.Callback{Unique: "confirm", Data: "abc-123"}, "confirm", "abc-123"},
		{"raw encoding", &tele.Callback{Data: "\\fbuy_product|prod-1"}, "buy_product", "prod-1"},
		{"raw without payload", &tele.Callback{Data: "\\fcancel"}, "cancel", ""},
		{"plain data", &tele.Callback{Data: "category|cat-9"}, "category", "cat-9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, payload := ParseCallbackData(tc.cb)
			if key != tc.key || payload != tc.payload {
				t.Fatalf("got (%q, %q), want (%q, %q)", key, payload, tc.key, tc.payload)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"category":    KindCategory,
		"buy_product": KindBuyProduct,
		"confirm":     KindConfirm,
		"cancel":      KindCancel,
		" confirm ":   KindConfirm,
		"refund":      KindUnknown,
		"":            KindUnknown,
	}
	for raw, want := range cases {
		if got := ParseKind(raw); got != want {
			t.Errorf("ParseKind(%q) = %q, want %q", raw, got, want)
		}
	}
}
