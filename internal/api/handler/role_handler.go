package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
)

// RoleHandler handles the administrative CRUD over role definitions.
type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

type roleRequest struct {
	Name          string   `json:"name"           validate:"required"`
	PermissionIDs []string `json:"permission_ids" validate:"required"`
	IsActive      *bool    `json:"is_active"`
}

type updateRoleRequest struct {
	Name          string   `json:"name"`
	PermissionIDs []string `json:"permission_ids"`
	IsActive      *bool    `json:"is_active"`
}

type roleDetailResponse struct {
	Role        *domain.Role `json:"role"`
	Permissions []string     `json:"permissions"`
}

// CreateRole creates a role definition.
//
// @Summary      Create role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        body  body      roleRequest  true  "Role definition"
// @Success      201   {object}  domain.Role
// @Failure      409   {object}  errorResponse
// @Router       /roles [post]
func (h *RoleHandler) CreateRole(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.service.CreateRole(c.Request().Context(), ports.RoleInput{
		Name:          req.Name,
		PermissionIDs: req.PermissionIDs,
		IsActive:      req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, role)
}

// GetRole returns a role with its permission names materialized.
//
// @Summary      Get role
// @Tags         roles
// @Produce      json
// @Param        id  path      string  true  "Role ID"
// @Success      200 {object}  roleDetailResponse
// @Failure      404 {object}  errorResponse
// @Router       /roles/{id} [get]
func (h *RoleHandler) GetRole(c echo.Context) error {
	detail, err := h.service.GetRole(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	perms := detail.Permissions
	if perms == nil {
		perms = []string{}
	}
	return c.JSON(http.StatusOK, roleDetailResponse{Role: detail.Role, Permissions: perms})
}

// UpdateRole updates a role definition.
//
// @Summary      Update role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Role ID"
// @Param        body  body      updateRoleRequest  true  "Fields to update"
// @Success      200   {object}  domain.Role
// @Failure      404   {object}  errorResponse
// @Router       /roles/{id} [put]
func (h *RoleHandler) UpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	role, err := h.service.UpdateRole(c.Request().Context(), c.Param("id"), ports.RoleInput{
		Name:          req.Name,
		PermissionIDs: req.PermissionIDs,
		IsActive:      req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// DeleteRole removes a role definition.
//
// @Summary      Delete role
// @Tags         roles
// @Produce      json
// @Param        id  path  string  true  "Role ID"
// @Success      204
// @Failure      404 {object}  errorResponse
// @Router       /roles/{id} [delete]
func (h *RoleHandler) DeleteRole(c echo.Context) error {
	if err := h.service.DeleteRole(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListRoles returns all role definitions.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Success      200 {array}  domain.Role
// @Router       /roles [get]
func (h *RoleHandler) ListRoles(c echo.Context) error {
	roles, err := h.service.ListRoles(c.Request().Context())
	if err != nil {
		return err
	}
	if roles == nil {
		roles = []*domain.Role{}
	}
	return c.JSON(http.StatusOK, roles)
}
