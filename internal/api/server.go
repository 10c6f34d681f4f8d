// Package api exposes the administrative REST surface for accounts and
// catalog data.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/lib/pq"

	"github.com/m3rciful/storebot/core/config"
	"github.com/m3rciful/storebot/core/logger"
	"github.com/m3rciful/storebot/internal/models"
)

// UserDirectory is the account surface the API depends on.
type UserDirectory interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	UpdateBalance(ctx context.Context, id uuid.UUID, balance int64) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryCatalog is the category surface the API depends on.
type CategoryCatalog interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductCatalog is the product surface the API depends on.
type ProductCatalog interface {
	List(ctx context.Context) ([]models.ProductWithCategory, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProductWithCategory, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Server hosts the admin REST endpoints.
type Server struct {
	echo       *echo.Echo
	cfg        config.APIConfig
	users      UserDirectory
	categories CategoryCatalog
	products   ProductCatalog
}

// Stores bundles the persistence handles the server needs.
type Stores struct {
	Users      UserDirectory
	Categories CategoryCatalog
	Products   ProductCatalog
}

// NewServer builds the echo application and mounts all routes under the
// configured prefix.
func NewServer(cfg config.APIConfig, st Stores) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(requestLogger)

	s := &Server{
		echo:       e,
		cfg:        cfg,
		users:      st.Users,
		categories: st.Categories,
		products:   st.Products,
	}
	s.mountRoutes()
	return s
}

func (s *Server) mountRoutes() {
	g := s.echo.Group(s.cfg.Prefix)

	g.GET("/users", s.listUsers)
	g.GET("/users/:id", s.getUser)
	g.PUT("/users/:id", s.updateUser)
	g.PUT("/users/:id/balance", s.updateUserBalance)
	g.DELETE("/users/:id", s.deleteUser)

	g.GET("/products", s.listProducts)
	g.POST("/products", s.createProduct)
	g.GET("/products/:id", s.getProduct)
	g.PUT("/products/:id", s.updateProduct)
	g.DELETE("/products/:id", s.deleteProduct)

	g.GET("/categories", s.listCategories)
	g.POST("/categories", s.createCategory)
	g.GET("/categories/:id", s.getCategory)
	g.PUT("/categories/:id", s.updateCategory)
	g.DELETE("/categories/:id", s.deleteCategory)
	g.GET("/categories/:id/products", s.listCategoryProducts)
	g.POST("/categories/:id/products", s.createCategoryProduct)
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()

	logger.API.LogAttrs(ctx, slog.LevelInfo, "api.listening",
		slog.String("listen", addr),
		slog.String("path", s.cfg.Prefix),
	)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		code := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				code = he.Code
			}
		}
		attrs := []slog.Attr{
			slog.String("method", c.Request().Method),
			slog.String("path", c.Request().URL.Path),
			slog.Int("http_code", code),
			slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
		}
		level := slog.LevelInfo
		if err != nil || code >= 500 {
			level = slog.LevelError
			if err != nil {
				attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
			}
		}
		logger.API.LogAttrs(c.Request().Context(), level, "request.handled", attrs...)
		return err
	}
}

// emailList accepts the credential pool either as a JSON array of strings or
// as a single delimited string. Delimited input splits on commas and
// newlines, both create and update.
type emailList pq.StringArray

func (e *emailList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*e = emailList(normalizeEmails(arr))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*e = emailList(normalizeEmails(splitEmails(s)))
	return nil
}
