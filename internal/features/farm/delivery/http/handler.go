package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"youguo-backend/internal/catalog"
	apperrors "youguo-backend/internal/common/errors"
	"youguo-backend/internal/common/middleware"
	"youguo-backend/internal/features/farm/engine"
	"youguo-backend/internal/features/farm/models"
	"youguo-backend/internal/features/farm/service"
)

type FarmHandler struct {
	service service.FarmService
}

func NewFarmHandler(service service.FarmService) *FarmHandler {
	return &FarmHandler{
		service: service,
	}
}

func (h *FarmHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/shop/seeds", h.listSeeds)

	farm := router.Group("/farm")
	{
		farm.GET("", h.getFarm)
		farm.GET("/history", h.getHistory)
		farm.POST("/seeds/:seedId/buy", h.buySeed)
		farm.POST("/plots/:index/plant", h.plant)
		farm.POST("/plots/:index/water", h.water)
		farm.POST("/plots/:index/harvest", h.harvest)
		farm.POST("/exchange", h.exchange)
	}
}

// rejection maps an engine rejection to its error code, or reports that the
// error is not a business-rule rejection.
func rejection(err error) (apperrors.ErrorCode, string, bool) {
	switch {
	case errors.Is(err, engine.ErrUnknownSeed):
		return apperrors.ErrCodeUnknownSeed, "Unknown seed type", true
	case errors.Is(err, engine.ErrInsufficientPoints):
		return apperrors.ErrCodeInsufficientPoints, "Not enough points", true
	case errors.Is(err, engine.ErrInvalidPlot):
		return apperrors.ErrCodeValidation, "Invalid plot index", true
	case errors.Is(err, engine.ErrPlotOccupied):
		return apperrors.ErrCodePlotOccupied, "Plot is already occupied", true
	case errors.Is(err, engine.ErrPlotEmpty):
		return apperrors.ErrCodePlotEmpty, "Plot is empty", true
	case errors.Is(err, engine.ErrSeedNotInInventory):
		return apperrors.ErrCodeSeedNotInInventory, "No such seed in inventory", true
	case errors.Is(err, engine.ErrNotHarvestable):
		return apperrors.ErrCodeNotHarvestable, "Crop is not ready for harvest", true
	case errors.Is(err, engine.ErrNotEnoughProduce):
		return apperrors.ErrCodeNotEnoughProduce, "Not enough produce to exchange", true
	}
	return "", "", false
}

func (h *FarmHandler) abortFarmError(c *gin.Context, operation string, err error) {
	if code, message, ok := rejection(err); ok {
		middleware.Abort(c, apperrors.New(code, message))
		return
	}
	middleware.Abort(c, apperrors.NewStorageError(operation, err))
}

func plotIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid plot index"})
		return 0, false
	}
	return idx, true
}

// @Summary List the seed catalog
// @Tags shop
// @Produce json
// @Security GoogleIDToken
// @Success 200 {array} catalog.SeedType
// @Router /shop/seeds [get]
func (h *FarmHandler) listSeeds(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.Seeds)
}

// @Summary Get the farm
// @Description Returns the authenticated user's plots, inventory, produce and point balance.
// @Tags farm
// @Produce json
// @Security GoogleIDToken
// @Success 200 {object} service.FarmView
// @Router /farm [get]
func (h *FarmHandler) getFarm(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	view, err := h.service.GetFarm(c.Request.Context(), user.ID)
	if err != nil {
		h.abortFarmError(c, "get farm", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Get harvest history
// @Tags farm
// @Produce json
// @Security GoogleIDToken
// @Success 200 {array} models.HarvestLog
// @Router /farm/history [get]
func (h *FarmHandler) getHistory(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	history, err := h.service.GetHistory(c.Request.Context(), user.ID)
	if err != nil {
		h.abortFarmError(c, "get history", err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// @Summary Buy a seed
// @Description Spends points on one seed of the given type. Rejected when the balance is below the price.
// @Tags farm
// @Produce json
// @Security GoogleIDToken
// @Param seedId path string true "Seed type ID"
// @Success 200 {object} service.FarmView
// @Failure 409 {object} middleware.ErrorResponse "Insufficient points"
// @Router /farm/seeds/{seedId}/buy [post]
func (h *FarmHandler) buySeed(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	view, err := h.service.BuySeed(c.Request.Context(), user.ID, c.Param("seedId"))
	if err != nil {
		h.abortFarmError(c, "buy seed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Plant a seed
// @Description Places one inventory seed into an empty plot at the SEED stage.
// @Tags farm
// @Accept json
// @Produce json
// @Security GoogleIDToken
// @Param index path int true "Plot index (0-5)"
// @Param request body models.PlantRequest true "Seed to plant"
// @Success 200 {object} service.FarmView
// @Failure 409 {object} middleware.ErrorResponse "Plot occupied or seed not in inventory"
// @Router /farm/plots/{index}/plant [post]
func (h *FarmHandler) plant(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	idx, ok := plotIndex(c)
	if !ok {
		return
	}

	var input models.PlantRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.service.Plant(c.Request.Context(), user.ID, idx, input.SeedID)
	if err != nil {
		h.abortFarmError(c, "plant", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Water a plot
// @Description Charges the watering cost and advances growth once the seed's threshold is reached. The cost applies on every valid watering.
// @Tags farm
// @Produce json
// @Security GoogleIDToken
// @Param index path int true "Plot index (0-5)"
// @Success 200 {object} service.FarmView
// @Failure 409 {object} middleware.ErrorResponse "Plot empty or insufficient points"
// @Router /farm/plots/{index}/water [post]
func (h *FarmHandler) water(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	idx, ok := plotIndex(c)
	if !ok {
		return
	}

	view, err := h.service.Water(c.Request.Context(), user.ID, idx)
	if err != nil {
		h.abortFarmError(c, "water", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Harvest a plot
// @Description Credits the crop's harvest amount to produce, clears the plot and appends a harvest log entry. Flavor text resolves asynchronously.
// @Tags farm
// @Produce json
// @Security GoogleIDToken
// @Param index path int true "Plot index (0-5)"
// @Success 200 {object} service.HarvestResult
// @Failure 409 {object} middleware.ErrorResponse "Crop not harvestable"
// @Router /farm/plots/{index}/harvest [post]
func (h *FarmHandler) harvest(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	idx, ok := plotIndex(c)
	if !ok {
		return
	}

	result, err := h.service.Harvest(c.Request.Context(), user.ID, idx)
	if err != nil {
		h.abortFarmError(c, "harvest", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Exchange produce for a goods box
// @Description Consumes the whole produce collection once the exchange threshold is met. The contact form is used for physical fulfillment only.
// @Tags farm
// @Accept json
// @Produce json
// @Security GoogleIDToken
// @Param form body models.ExchangeForm true "Delivery contact"
// @Success 200 {object} service.FarmView
// @Failure 409 {object} middleware.ErrorResponse "Not enough produce"
// @Router /farm/exchange [post]
func (h *FarmHandler) exchange(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var form models.ExchangeForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.service.Exchange(c.Request.Context(), user.ID, form)
	if err != nil {
		h.abortFarmError(c, "exchange", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
