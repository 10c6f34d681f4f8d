package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) listUsers(c echo.Context) error {
	users, err := s.users.List(c.Request().Context())
	if err != nil {
		return storeError(err, "users", "fetching")
	}
	return c.JSON(http.StatusOK, users)
}

func (s *Server) getUser(c echo.Context) error {
	id, err := parseID(c, "user")
	if err != nil {
		return err
	}
	user, err := s.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return storeError(err, "user", "fetching")
	}
	return c.JSON(http.StatusOK, user)
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Balance  *int64  `json:"balance"`
}

func (s *Server) updateUser(c echo.Context) error {
	id, err := parseID(c, "user")
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "user", "updating")
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Balance != nil {
		if *req.Balance < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid balance value")
		}
		user.Balance = *req.Balance
	}

	if err := s.users.Update(ctx, user); err != nil {
		return storeError(err, "user", "updating")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

type updateBalanceRequest struct {
	Balance *int64 `json:"balance"`
}

func (s *Server) updateUserBalance(c echo.Context) error {
	id, err := parseID(c, "user")
	if err != nil {
		return err
	}

	var req updateBalanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid balance value")
	}
	if req.Balance == nil || *req.Balance < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid balance value")
	}

	user, err := s.users.UpdateBalance(c.Request().Context(), id, *req.Balance)
	if err != nil {
		return storeError(err, "user", "updating balance for")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Balance updated successfully",
		"user":    user,
	})
}

func (s *Server) deleteUser(c echo.Context) error {
	id, err := parseID(c, "user")
	if err != nil {
		return err
	}
	if err := s.users.Delete(c.Request().Context(), id); err != nil {
		return storeError(err, "user", "deleting")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}
