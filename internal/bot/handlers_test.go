package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/storebot/core/telegram"
	"github.com/m3rciful/storebot/core/telegram/callbacks"
	"github.com/m3rciful/storebot/internal/models"
	"github.com/m3rciful/storebot/internal/store"
)

// recorderContext overrides the tele.Context surface the handlers touch and
// records outgoing messages. Unimplemented methods panic via the nil embed.
type recorderContext struct {
	tele.Context
	values map[string]any
	sent   []string
}

func newRecorderContext() *recorderContext {
	return &recorderContext{values: map[string]any{}}
}

func (c *recorderContext) Get(key string) any      { return c.values[key] }
func (c *recorderContext) Set(key string, val any) { c.values[key] = val }
func (c *recorderContext) Update() tele.Update     { return tele.Update{ID: 1} }
func (c *recorderContext) Sender() *tele.User      { return &tele.User{ID: 42, Username: "alice"} }
func (c *recorderContext) Chat() *tele.Chat        { return &tele.Chat{ID: 42} }

func (c *recorderContext) Send(what any, _ ...any) error {
	if s, ok := what.(string); ok {
		c.sent = append(c.sent, s)
	}
	return nil
}

type stubProducts struct {
	product *models.ProductWithCategory
	err     error
}

func (s *stubProducts) GetByID(context.Context, uuid.UUID) (*models.ProductWithCategory, error) {
	return s.product, s.err
}

func (s *stubProducts) ListByCategory(context.Context, uuid.UUID) ([]models.Product, error) {
	return nil, s.err
}

func buyAction() callbacks.Action {
	return callbacks.Action{Kind: callbacks.KindBuyProduct, ID: uuid.NewString()}
}

func TestOnBuyProductStoreFailureSendsRetryMessage(t *testing.T) {
	b := New(nil, nil, &stubProducts{err: errors.New("pq: connection refused")}, nil)
	c := newRecorderContext()

	err := b.OnBuyProduct(c, buyAction())
	if err == nil {
		t.Fatal("expected error to propagate for store failure")
	}
	if len(c.sent) != 1 || c.sent[0] != msgGenericError {
		t.Errorf("sent = %v, want [%q]", c.sent, msgGenericError)
	}
}

func TestOnBuyProductMissingProductUnavailable(t *testing.T) {
	b := New(nil, nil, &stubProducts{err: store.ErrNotFound}, nil)
	c := newRecorderContext()

	if err := b.OnBuyProduct(c, buyAction()); err != nil {
		t.Fatalf("OnBuyProduct: %v", err)
	}
	if len(c.sent) != 1 || c.sent[0] != msgProductUnavailable {
		t.Errorf("sent = %v, want [%q]", c.sent, msgProductUnavailable)
	}
}

func TestOnBuyProductEmptyPoolUnavailable(t *testing.T) {
	p := &models.ProductWithCategory{Product: models.Product{ID: uuid.New(), Name: "P", Cost: 10}}
	b := New(nil, nil, &stubProducts{product: p}, nil)
	c := newRecorderContext()

	if err := b.OnBuyProduct(c, buyAction()); err != nil {
		t.Fatalf("OnBuyProduct: %v", err)
	}
	if len(c.sent) != 1 || c.sent[0] != msgProductUnavailable {
		t.Errorf("sent = %v, want [%q]", c.sent, msgProductUnavailable)
	}
}

func TestUnknownTextSendsMenuHint(t *testing.T) {
	b := New(nil, nil, nil, nil)
	c := newRecorderContext()

	if err := b.UnknownText(c); err != nil {
		t.Fatalf("UnknownText: %v", err)
	}
	if len(c.sent) != 1 || c.sent[0] != msgUnknownInput {
		t.Errorf("sent = %v, want [%q]", c.sent, msgUnknownInput)
	}
}

func TestRegisterBindsFullSurface(t *testing.T) {
	b := New(nil, nil, nil, nil)
	reg := tg.NewRegistry()
	b.Register(reg)

	if _, _, ok := reg.LookupCommand("/start"); !ok {
		t.Error("/start not registered")
	}
	for _, label := range []string{labelCheckBalance, labelAccountInfo, labelBrowseProducts} {
		if _, ok := reg.GetText(label); !ok {
			t.Errorf("label %q not registered", label)
		}
	}
	for _, kind := range []callbacks.Kind{
		callbacks.KindCategory, callbacks.KindBuyProduct, callbacks.KindConfirm, callbacks.KindCancel,
	} {
		if _, ok := reg.GetCallback(kind); !ok {
			t.Errorf("callback %q not registered", kind)
		}
	}
	if reg.TextFallback() == nil {
		t.Error("unknown-text fallback not registered")
	}
}
