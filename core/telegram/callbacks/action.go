// Package callbacks decodes inline-button callback payloads into tagged
// actions. Decoding happens once at the transport boundary; handlers
// dispatch on the enumerated kind instead of matching string prefixes.
package callbacks

import (
	"errors"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Kind enumerates supported callback actions.
type Kind string

const (
	// KindCategory lists products of the selected category.
	KindCategory Kind = "category"
	// KindBuyProduct asks for purchase confirmation of the selected product.
	KindBuyProduct Kind = "buy_product"
	// KindConfirm executes the pending purchase.
	KindConfirm Kind = "confirm"
	// KindCancel aborts the pending purchase.
	KindCancel Kind = "cancel"
	// KindUnknown marks payloads that do not map to a supported action.
	KindUnknown Kind = ""
)

// ErrNoCallback is returned when the update carries no callback query.
var ErrNoCallback = errors.New("callbacks: update has no callback")

// Action is a decoded callback: an enumerated kind plus the entity id payload.
type Action struct {
	Kind Kind
	ID   string
}

var knownKinds = map[string]Kind{
	string(KindCategory):   KindCategory,
	string(KindBuyProduct): KindBuyProduct,
	string(KindConfirm):    KindConfirm,
	string(KindCancel):     KindCancel,
}

// ParseKind maps a raw callback key to its Kind, KindUnknown when unsupported.
func ParseKind(raw string) Kind {
	if k, ok := knownKinds[strings.TrimSpace(raw)]; ok {
		return k
	}
	return KindUnknown
}

// Decode extracts the tagged action from the update's callback query.
func Decode(c tele.Context) (Action, error) {
	cb := c.Callback()
	if cb == nil {
		return Action{}, ErrNoCallback
	}
	key, payload := ParseCallbackData(cb)
	return Action{
		Kind: ParseKind(key),
		ID:   strings.TrimSpace(payload),
	}, nil
}

// ParseCallbackData parses Telebot's \f<unique>|<payload> encoding.
// Returns unique and payload (may be empty).
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\\f")
	parts := strings.SplitN(raw, "|", 2)
	unique := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return unique, payload
}
