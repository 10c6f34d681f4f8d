package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/m3rciful/storebot/core/config"
	"github.com/m3rciful/storebot/internal/models"
	"github.com/m3rciful/storebot/internal/store"
)

type memUsers struct {
	users map[uuid.UUID]*models.User
}

func (m *memUsers) List(context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Update(_ context.Context, u *models.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) UpdateBalance(_ context.Context, id uuid.UUID, balance int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.Balance = balance
	cp := *u
	return &cp, nil
}

func (m *memUsers) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type memCategories struct {
	cats map[uuid.UUID]*models.Category
}

func (m *memCategories) List(context.Context) ([]models.Category, error) {
	out := []models.Category{}
	for _, c := range m.cats {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memCategories) GetByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	c, ok := m.cats[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCategories) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.cats[id]
	return ok, nil
}

func (m *memCategories) Create(_ context.Context, c *models.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	m.cats[c.ID] = &cp
	return nil
}

func (m *memCategories) Update(_ context.Context, c *models.Category) error {
	if _, ok := m.cats[c.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *c
	m.cats[c.ID] = &cp
	return nil
}

func (m *memCategories) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.cats[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.cats, id)
	return nil
}

type memProducts struct {
	products map[uuid.UUID]*models.Product
	cats     *memCategories
}

func (m *memProducts) List(context.Context) ([]models.ProductWithCategory, error) {
	out := []models.ProductWithCategory{}
	for _, p := range m.products {
		out = append(out, m.withCategory(p))
	}
	return out, nil
}

func (m *memProducts) GetByID(_ context.Context, id uuid.UUID) (*models.ProductWithCategory, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	pc := m.withCategory(p)
	return &pc, nil
}

func (m *memProducts) ListByCategory(_ context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range m.products {
		if p.CategoryID == categoryID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) Create(_ context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memProducts) Update(_ context.Context, p *models.Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memProducts) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memProducts) withCategory(p *models.Product) models.ProductWithCategory {
	pc := models.ProductWithCategory{Product: *p}
	if c, ok := m.cats.cats[p.CategoryID]; ok {
		pc.CategoryName = c.Name
	}
	return pc
}

func newTestServer() (*Server, *memUsers, *memCategories, *memProducts) {
	users := &memUsers{users: map[uuid.UUID]*models.User{}}
	cats := &memCategories{cats: map[uuid.UUID]*models.Category{}}
	products := &memProducts{products: map[uuid.UUID]*models.Product{}, cats: cats}
	srv := NewServer(config.APIConfig{Prefix: "/api"}, Stores{
		Users:      users,
		Categories: cats,
		Products:   products,
	})
	return srv, users, cats, products
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func TestGetUserInvalidIDFormat(t *testing.T) {
	srv, _, _, _ := newTestServer()
	rec := doRequest(t, srv, http.MethodGet, "/api/users/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}

func TestGetUserNotFound(t *testing.T) {
	srv, _, _, _ := newTestServer()
	rec := doRequest(t, srv, http.MethodGet, "/api/users/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
}

func TestUpdateUserBalance(t *testing.T) {
	srv, users, _, _ := newTestServer()
	id := uuid.New()
	users.users[id] = &models.User{ID: id, TelegramID: 7, UniqueID: "USER-1-1", Username: "bob", Balance: 500}

	rec := doRequest(t, srv, http.MethodPut, "/api/users/"+id.String()+"/balance", `{"balance": 1200}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if got := users.users[id].Balance; got != 1200 {
		t.Errorf("balance = %d, want 1200", got)
	}
}

func TestUpdateUserBalanceRejectsNegative(t *testing.T) {
	srv, users, _, _ := newTestServer()
	id := uuid.New()
	users.users[id] = &models.User{ID: id, Balance: 500}

	for _, body := range []string{`{"balance": -5}`, `{}`, `{"balance": "lots"}`} {
		rec := doRequest(t, srv, http.MethodPut, "/api/users/"+id.String()+"/balance", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: code = %d, want 400", body, rec.Code)
		}
	}
	if got := users.users[id].Balance; got != 500 {
		t.Errorf("balance mutated to %d by rejected request", got)
	}
}

func TestDeleteUser(t *testing.T) {
	srv, users, _, _ := newTestServer()
	id := uuid.New()
	users.users[id] = &models.User{ID: id}

	rec := doRequest(t, srv, http.MethodDelete, "/api/users/"+id.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if _, ok := users.users[id]; ok {
		t.Error("user still present after delete")
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/users/"+id.String(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete code = %d, want 404", rec.Code)
	}
}

func TestCreateCategory(t *testing.T) {
	srv, _, cats, _ := newTestServer()
	rec := doRequest(t, srv, http.MethodPost, "/api/categories", `{"name": "Streaming"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	if len(cats.cats) != 1 {
		t.Fatalf("categories stored = %d, want 1", len(cats.cats))
	}
}

func TestCreateCategoryRequiresName(t *testing.T) {
	srv, _, _, _ := newTestServer()
	rec := doRequest(t, srv, http.MethodPost, "/api/categories", `{"name": "  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}

func TestCreateProductValidatesCategory(t *testing.T) {
	srv, _, _, _ := newTestServer()

	rec := doRequest(t, srv, http.MethodPost, "/api/products",
		`{"name": "P", "cost": 10, "categoryId": "nope"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed category id: code = %d, want 400", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/products",
		`{"name": "P", "cost": 10, "categoryId": "`+uuid.NewString()+`"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown category: code = %d, want 404", rec.Code)
	}
}

func TestCreateProductAcceptsEmailArrayOrString(t *testing.T) {
	srv, _, cats, products := newTestServer()
	catID := uuid.New()
	cats.cats[catID] = &models.Category{ID: catID, Name: "Streaming"}

	cases := []struct {
		name   string
		emails string
		want   []string
	}{
		{"array", `["a@x.com", "b@x.com"]`, []string{"a@x.com", "b@x.com"}},
		{"comma string", `"a@x.com, b@x.com"`, []string{"a@x.com", "b@x.com"}},
		{"newline string", `"a@x.com\nb@x.com"`, []string{"a@x.com", "b@x.com"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := `{"name": "P", "cost": 10, "password": "pw", "emails": ` + tc.emails +
				`, "categoryId": "` + catID.String() + `"}`
			rec := doRequest(t, srv, http.MethodPost, "/api/products", body)
			if rec.Code != http.StatusCreated {
				t.Fatalf("code = %d, want 201, body %s", rec.Code, rec.Body.String())
			}

			var resp struct {
				Product models.Product `json:"product"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if len(resp.Product.Emails) != len(tc.want) {
				t.Fatalf("emails = %v, want %v", resp.Product.Emails, tc.want)
			}
			for i, e := range tc.want {
				if resp.Product.Emails[i] != e {
					t.Errorf("emails[%d] = %q, want %q", i, resp.Product.Emails[i], e)
				}
			}
		})
	}

	if len(products.products) != len(cases) {
		t.Errorf("products stored = %d, want %d", len(products.products), len(cases))
	}
}

func TestCreateProductUnderCategoryPath(t *testing.T) {
	srv, _, cats, products := newTestServer()
	catID := uuid.New()
	cats.cats[catID] = &models.Category{ID: catID, Name: "Gaming"}

	rec := doRequest(t, srv, http.MethodPost, "/api/categories/"+catID.String()+"/products",
		`{"name": "P", "cost": 10, "emails": ["a@x.com"], "password": "pw"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	for _, p := range products.products {
		if p.CategoryID != catID {
			t.Errorf("product category = %s, want %s", p.CategoryID, catID)
		}
	}
}

func TestListProductsResolvesCategoryName(t *testing.T) {
	srv, _, cats, products := newTestServer()
	catID := uuid.New()
	cats.cats[catID] = &models.Category{ID: catID, Name: "VPN"}
	pid := uuid.New()
	products.products[pid] = &models.Product{ID: pid, Name: "P", Cost: 5, CategoryID: catID}

	rec := doRequest(t, srv, http.MethodGet, "/api/products", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	var list []models.ProductWithCategory
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 1 || list[0].CategoryName != "VPN" {
		t.Fatalf("list = %+v, want one product with category VPN", list)
	}
}

func TestUpdateProductRevalidatesCategory(t *testing.T) {
	srv, _, cats, products := newTestServer()
	catID := uuid.New()
	cats.cats[catID] = &models.Category{ID: catID, Name: "VPN"}
	pid := uuid.New()
	products.products[pid] = &models.Product{ID: pid, Name: "P", Cost: 5, CategoryID: catID}

	rec := doRequest(t, srv, http.MethodPut, "/api/products/"+pid.String(),
		`{"name": "P2", "cost": 7, "categoryId": "`+uuid.NewString()+`"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
	if got := products.products[pid].Name; got != "P" {
		t.Errorf("product mutated to %q by rejected update", got)
	}
}
