package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/m3rciful/storebot/internal/models"
)

func (s *Server) listCategories(c echo.Context) error {
	cats, err := s.categories.List(c.Request().Context())
	if err != nil {
		return storeError(err, "categories", "fetching")
	}
	return c.JSON(http.StatusOK, cats)
}

func (s *Server) getCategory(c echo.Context) error {
	id, err := parseID(c, "category")
	if err != nil {
		return err
	}
	cat, err := s.categories.GetByID(c.Request().Context(), id)
	if err != nil {
		return storeError(err, "category", "fetching")
	}
	return c.JSON(http.StatusOK, cat)
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) createCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "category name is required")
	}

	cat := &models.Category{Name: strings.TrimSpace(req.Name)}
	if err := s.categories.Create(c.Request().Context(), cat); err != nil {
		return storeError(err, "category", "creating")
	}
	return c.JSON(http.StatusCreated, cat)
}

func (s *Server) updateCategory(c echo.Context) error {
	id, err := parseID(c, "category")
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "category name is required")
	}

	cat := &models.Category{ID: id, Name: strings.TrimSpace(req.Name)}
	if err := s.categories.Update(c.Request().Context(), cat); err != nil {
		return storeError(err, "category", "updating")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Category updated successfully",
		"category": cat,
	})
}

func (s *Server) deleteCategory(c echo.Context) error {
	id, err := parseID(c, "category")
	if err != nil {
		return err
	}
	if err := s.categories.Delete(c.Request().Context(), id); err != nil {
		return storeError(err, "category", "deleting")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted successfully"})
}

func (s *Server) listCategoryProducts(c echo.Context) error {
	id, err := parseID(c, "category")
	if err != nil {
		return err
	}
	products, err := s.products.ListByCategory(c.Request().Context(), id)
	if err != nil {
		return storeError(err, "products", "fetching")
	}
	return c.JSON(http.StatusOK, products)
}

// createCategoryProduct creates a product under the category named in the
// path, with the same validation as POST /products.
func (s *Server) createCategoryProduct(c echo.Context) error {
	id, err := parseID(c, "category")
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	catID := id.String()
	req.CategoryID = &catID
	return s.insertProduct(c, req, "Product added to category")
}
