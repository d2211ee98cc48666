package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
)

// UserHandler handles HTTP requests for user profiles and the
// administrative user listing.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Me returns the authenticated caller's own profile.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Success      200 {object}  domain.User
// @Failure      401 {object}  errorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetProfile(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// GetProfile returns the profile for the given user ID.
//
// @Summary      Get user profile
// @Tags         users
// @Produce      json
// @Param        id  path      string  true  "User ID"
// @Success      200 {object}  domain.User
// @Failure      401 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.service.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser updates the profile for the given user ID.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      202   {object}  domain.User
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.UpdateUser(c.Request().Context(), c.Param("id"), ports.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		UserName:  req.UserName,
		Role:      req.Role,
		IsActive:  req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, user)
}

// DeleteUser soft-deletes the given user.
//
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Param        id  path      string  true  "User ID"
// @Success      202 {object}  domain.User
// @Failure      401 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	user, err := h.service.DeleteUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, user)
}

// ListUsers returns a page of users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        search  query     string  false  "Partial first-name match"
// @Param        role    query     string  false  "Filter by role"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  listUsersResponse
// @Failure      401     {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.ListUsers(c.Request().Context(), ports.ListUsersFilter{
		Search:  c.QueryParam("search"),
		Role:    c.QueryParam("role"),
		SortBy:  c.QueryParam("sort_by"),
		SortAsc: c.QueryParam("sort") == "asc",
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	items := result.Items
	if items == nil {
		items = []*domain.User{}
	}
	return c.JSON(http.StatusOK, listUsersResponse{
		List:  items,
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	})
}
