package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "youguo-backend/internal/common/errors"
	"youguo-backend/internal/common/middleware"
	"youguo-backend/internal/features/admin/service"
	usermodels "youguo-backend/internal/features/user/models"
)

type AdminHandler struct {
	service service.AdminService
}

func NewAdminHandler(service service.AdminService) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

// RegisterRoutes mounts the moderation surface. Every route requires an
// authenticated admin; the group-level middleware enforces that.
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/stats", h.systemStats)
		admin.GET("/users", h.listUsers)
		admin.GET("/users/:id/stats", h.userStats)
		admin.PUT("/users/:id/status", h.setStatus)
		admin.PUT("/users/:id/role", h.setRole)
		admin.POST("/reset", h.reset)
	}
}

// @Summary System-wide statistics
// @Tags admin
// @Produce json
// @Security GoogleIDToken
// @Success 200 {object} models.SystemStats
// @Router /admin/stats [get]
func (h *AdminHandler) systemStats(c *gin.Context) {
	stats, err := h.service.SystemStats(c.Request.Context())
	if err != nil {
		middleware.Abort(c, apperrors.NewStorageError("system stats", err))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary List all users
// @Description Returns every user with their per-user statistics and an advisory anomaly flag when one of the heuristics fires.
// @Tags admin
// @Produce json
// @Security GoogleIDToken
// @Success 200 {array} models.UserOverview
// @Router /admin/users [get]
func (h *AdminHandler) listUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		middleware.Abort(c, apperrors.NewStorageError("list users", err))
		return
	}
	c.JSON(http.StatusOK, users)
}

// @Summary Per-user statistics
// @Tags admin
// @Produce json
// @Security GoogleIDToken
// @Param id path string true "User ID"
// @Success 200 {object} models.UserStats
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/users/{id}/stats [get]
func (h *AdminHandler) userStats(c *gin.Context) {
	stats, err := h.service.UserStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			middleware.Abort(c, apperrors.New(apperrors.ErrCodeUserNotFound, "User not found"))
			return
		}
		middleware.Abort(c, apperrors.NewStorageError("user stats", err))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Set a user's account status
// @Description Overwrites the status. Banning takes effect on the user's next request.
// @Tags admin
// @Accept json
// @Produce json
// @Security GoogleIDToken
// @Param id path string true "User ID"
// @Param request body usermodels.StatusUpdate true "New status"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/users/{id}/status [put]
func (h *AdminHandler) setStatus(c *gin.Context) {
	var input usermodels.StatusUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetStatus(c.Request.Context(), c.Param("id"), input.Status); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			middleware.Abort(c, apperrors.New(apperrors.ErrCodeUserNotFound, "User not found"))
			return
		}
		middleware.Abort(c, apperrors.NewStorageError("set status", err))
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Set a user's role
// @Tags admin
// @Accept json
// @Produce json
// @Security GoogleIDToken
// @Param id path string true "User ID"
// @Param request body usermodels.RoleUpdate true "New role"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/users/{id}/role [put]
func (h *AdminHandler) setRole(c *gin.Context) {
	var input usermodels.RoleUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetRole(c.Request.Context(), c.Param("id"), input.Role); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			middleware.Abort(c, apperrors.New(apperrors.ErrCodeUserNotFound, "User not found"))
			return
		}
		middleware.Abort(c, apperrors.NewStorageError("set role", err))
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Wipe all application data
// @Description Reinitializes the aggregate to its empty state. Irreversible.
// @Tags admin
// @Produce json
// @Security GoogleIDToken
// @Success 204
// @Router /admin/reset [post]
func (h *AdminHandler) reset(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context()); err != nil {
		middleware.Abort(c, apperrors.NewStorageError("reset", err))
		return
	}
	c.Status(http.StatusNoContent)
}
