package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
)

// PermissionHandler handles the administrative CRUD over permission
// definitions.
type PermissionHandler struct {
	service ports.PermissionService
}

func NewPermissionHandler(service ports.PermissionService) *PermissionHandler {
	return &PermissionHandler{service: service}
}

type permissionRequest struct {
	Name     string `json:"name" validate:"required"`
	IsActive *bool  `json:"is_active"`
}

// CreatePermission creates a permission definition.
//
// @Summary      Create permission
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Param        body  body      permissionRequest  true  "Permission definition"
// @Success      201   {object}  domain.Permission
// @Failure      409   {object}  errorResponse
// @Router       /permissions [post]
func (h *PermissionHandler) CreatePermission(c echo.Context) error {
	var req permissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	perm, err := h.service.CreatePermission(c.Request().Context(), ports.PermissionInput{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, perm)
}

// GetPermission returns a permission definition.
//
// @Summary      Get permission
// @Tags         permissions
// @Produce      json
// @Param        id  path      string  true  "Permission ID"
// @Success      200 {object}  domain.Permission
// @Failure      404 {object}  errorResponse
// @Router       /permissions/{id} [get]
func (h *PermissionHandler) GetPermission(c echo.Context) error {
	perm, err := h.service.GetPermission(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, perm)
}

// UpdatePermission updates a permission definition.
//
// @Summary      Update permission
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Permission ID"
// @Param        body  body      permissionRequest  true  "Fields to update"
// @Success      200   {object}  domain.Permission
// @Failure      404   {object}  errorResponse
// @Router       /permissions/{id} [put]
func (h *PermissionHandler) UpdatePermission(c echo.Context) error {
	var req permissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	perm, err := h.service.UpdatePermission(c.Request().Context(), c.Param("id"), ports.PermissionInput{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, perm)
}

// DeletePermission removes a permission definition.
//
// @Summary      Delete permission
// @Tags         permissions
// @Produce      json
// @Param        id  path  string  true  "Permission ID"
// @Success      204
// @Failure      404 {object}  errorResponse
// @Router       /permissions/{id} [delete]
func (h *PermissionHandler) DeletePermission(c echo.Context) error {
	if err := h.service.DeletePermission(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPermissions returns all permission definitions.
//
// @Summary      List permissions
// @Tags         permissions
// @Produce      json
// @Success      200 {array}  domain.Permission
// @Router       /permissions [get]
func (h *PermissionHandler) ListPermissions(c echo.Context) error {
	perms, err := h.service.ListPermissions(c.Request().Context())
	if err != nil {
		return err
	}
	if perms == nil {
		perms = []*domain.Permission{}
	}
	return c.JSON(http.StatusOK, perms)
}
