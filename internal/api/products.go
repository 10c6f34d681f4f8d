package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"

	"github.com/m3rciful/storebot/internal/models"
)

type productRequest struct {
	Name       string    `json:"name"`
	Cost       int64     `json:"cost"`
	Password   string    `json:"password"`
	Emails     emailList `json:"emails"`
	CategoryID *string   `json:"categoryId"`
}

func (s *Server) listProducts(c echo.Context) error {
	products, err := s.products.List(c.Request().Context())
	if err != nil {
		return storeError(err, "products", "fetching")
	}
	return c.JSON(http.StatusOK, products)
}

func (s *Server) getProduct(c echo.Context) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}
	product, err := s.products.GetByID(c.Request().Context(), id)
	if err != nil {
		return storeError(err, "product", "fetching")
	}
	return c.JSON(http.StatusOK, product)
}

func (s *Server) createProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return s.insertProduct(c, req, "Product created successfully")
}

// insertProduct validates the category reference and persists a new product.
func (s *Server) insertProduct(c echo.Context, req productRequest, message string) error {
	catID, err := s.resolveCategory(c, req.CategoryID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product name is required")
	}
	if req.Cost < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "product cost must be non-negative")
	}

	product := &models.Product{
		Name:       strings.TrimSpace(req.Name),
		Cost:       req.Cost,
		Password:   req.Password,
		Emails:     pq.StringArray(req.Emails),
		CategoryID: catID,
	}
	if err := s.products.Create(c.Request().Context(), product); err != nil {
		return storeError(err, "product", "creating")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": message,
		"product": product,
	})
}

func (s *Server) updateProduct(c echo.Context) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	catID, err := s.resolveCategory(c, req.CategoryID)
	if err != nil {
		return err
	}

	product := &models.Product{
		ID:         id,
		Name:       strings.TrimSpace(req.Name),
		Cost:       req.Cost,
		Password:   req.Password,
		Emails:     pq.StringArray(req.Emails),
		CategoryID: catID,
	}
	if err := s.products.Update(c.Request().Context(), product); err != nil {
		return storeError(err, "product", "updating")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product updated successfully",
		"product": product,
	})
}

func (s *Server) deleteProduct(c echo.Context) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}
	if err := s.products.Delete(c.Request().Context(), id); err != nil {
		return storeError(err, "product", "deleting")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// resolveCategory parses the referenced category id and verifies the row
// exists. A malformed id is a 400, a well-formed but unknown one a 404.
func (s *Server) resolveCategory(c echo.Context, raw *string) (uuid.UUID, error) {
	if raw == nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid category ID format")
	}
	catID, err := uuid.Parse(*raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid category ID format")
	}
	exists, err := s.categories.Exists(c.Request().Context(), catID)
	if err != nil {
		return uuid.Nil, storeError(err, "category", "fetching")
	}
	if !exists {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, "Category not found")
	}
	return catID, nil
}
