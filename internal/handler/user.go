package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront/internal/middleware"
	"github.com/iliyamo/storefront/internal/request"
	"github.com/iliyamo/storefront/internal/service"
)

// UserHandler exposes account endpoints.
type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	if users == nil {
		panic("nil service passed to NewUserHandler")
	}
	return &UserHandler{Users: users}
}

func (h *UserHandler) Register(c echo.Context) error {
	var req request.Register
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	res, err := h.Users.Register(c.Request().Context(), middleware.Token(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, "User registered successfully.", res)
}

func (h *UserHandler) Login(c echo.Context) error {
	var req request.Login
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	res, err := h.Users.Login(c.Request().Context(), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "Login successful.", res)
}

func (h *UserHandler) Logout(c echo.Context) error {
	if err := h.Users.Logout(c.Request().Context(), middleware.Token(c)); err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "Logged out successfully.", nil)
}

func (h *UserHandler) List(c echo.Context) error {
	users, err := h.Users.ListUsers(c.Request().Context(), middleware.Token(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "Users fetched successfully.", users)
}

func (h *UserHandler) Get(c echo.Context) error {
	u, err := h.Users.GetUser(c.Request().Context(), middleware.Token(c), pathID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "User fetched successfully.", u)
}

func (h *UserHandler) Update(c echo.Context) error {
	var req request.UpdateUser
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	req.ID = pathID(c)
	u, err := h.Users.UpdateUser(c.Request().Context(), middleware.Token(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "User updated successfully.", u)
}

func (h *UserHandler) Delete(c echo.Context) error {
	u, err := h.Users.DeleteUser(c.Request().Context(), middleware.Token(c), pathID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "User deleted successfully.", u)
}
