package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"youguo-backend/internal/common/middleware"
	"youguo-backend/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/login", h.login)

	users := router.Group("/users")
	{
		users.GET("/me", h.getMe)
	}
}

// @Summary Log in
// @Description Decodes the replayed identity assertion and synchronizes the account: first login creates a profile with the starting balance and an empty farm, later logins refresh display fields only.
// @Tags auth
// @Produce json
// @Security GoogleIDToken
// @Success 200 {object} models.UserProfile "Synced profile"
// @Failure 401 {object} map[string]string "Invalid identity token"
// @Router /auth/login [post]
func (h *UserHandler) login(c *gin.Context) {
	profile, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: identity token required"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// @Summary Get current user
// @Description Returns the profile of the authenticated account.
// @Tags users
// @Produce json
// @Security GoogleIDToken
// @Success 200 {object} models.UserProfile "Profile"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /users/me [get]
func (h *UserHandler) getMe(c *gin.Context) {
	profile, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: identity token required"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
