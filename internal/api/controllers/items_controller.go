package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wedplan/internal/models/request_models"
	"wedplan/internal/services"
	"wedplan/pkg/utils"
)

const streamHeartbeat = 25 * time.Second

type ItemsController struct {
	itemService services.ItemServiceInterface
	log         *zap.Logger
}

func NewItemsController(itemService services.ItemServiceInterface, log *zap.Logger) *ItemsController {
	return &ItemsController{itemService: itemService, log: log}
}

func itemIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid item id")
		return uuid.Nil, false
	}
	return id, true
}

// List godoc
// @Summary List board items
// @Tags Items
// @Produce json
// @Param type query string false "expense, guest, task, moodboard, activity or moodboard_share"
// @Param status query string false "Status filter"
// @Param search query string false "Case-insensitive text search"
// @Param sort query string false "created_at, -created_at, amount, -amount, name or due_date"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/items [get]
func (ic *ItemsController) List(c *gin.Context) {
	_, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	var query request_models.ListItemsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	items, err := ic.itemService.List(c.Request.Context(), workspaceID, query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, items, "Items fetched successfully")
}

// Get godoc
// @Summary Get a board item
// @Tags Items
// @Produce json
// @Param id path string true "Item id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/items/{id} [get]
func (ic *ItemsController) Get(c *gin.Context) {
	_, workspaceID, ok := identity(c)
	if !ok {
		return
	}
	id, ok := itemIDParam(c)
	if !ok {
		return
	}

	item, err := ic.itemService.Get(c.Request.Context(), workspaceID, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, item, "Item fetched successfully")
}

// Create godoc
// @Summary Create an expense, guest or task
// @Tags Items
// @Accept json
// @Produce json
// @Param request body request_models.CreateItemRequest true "Item"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/items [post]
func (ic *ItemsController) Create(c *gin.Context) {
	userID, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	var req request_models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	item, err := ic.itemService.Create(c.Request.Context(), workspaceID, userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, item, "Item created successfully")
}

// Update godoc
// @Summary Patch a board item
// @Tags Items
// @Accept json
// @Produce json
// @Param id path string true "Item id"
// @Param request body request_models.UpdateItemRequest true "Fields to merge"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/items/{id} [patch]
func (ic *ItemsController) Update(c *gin.Context) {
	userID, workspaceID, ok := identity(c)
	if !ok {
		return
	}
	id, ok := itemIDParam(c)
	if !ok {
		return
	}

	var req request_models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	item, err := ic.itemService.Update(c.Request.Context(), workspaceID, userID, id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, item, "Item updated successfully")
}

// Delete godoc
// @Summary Delete a board item
// @Tags Items
// @Produce json
// @Param id path string true "Item id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/items/{id} [delete]
func (ic *ItemsController) Delete(c *gin.Context) {
	userID, workspaceID, ok := identity(c)
	if !ok {
		return
	}
	id, ok := itemIDParam(c)
	if !ok {
		return
	}

	if err := ic.itemService.Delete(c.Request.Context(), workspaceID, userID, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Item deleted successfully")
}

// BudgetStats godoc
// @Summary Budget totals computed from expenses
// @Tags Items
// @Produce json
// @Param total query number false "Override of the onboarding budget"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/budget/stats [get]
func (ic *ItemsController) BudgetStats(c *gin.Context) {
	_, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	var total *float64
	if raw := c.Query("total"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid total")
			return
		}
		total = &v
	}

	stats, err := ic.itemService.BudgetStats(c.Request.Context(), workspaceID, total)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, stats, "Budget stats fetched successfully")
}

// Stream godoc
// @Summary Live changes of one item type
// @Description Every connection gets its own stream of created, updated and deleted events
// @Tags Items
// @Produce text/event-stream
// @Param type query string true "Item type"
// @Security BearerAuth
// @Router /api/items/stream [get]
func (ic *ItemsController) Stream(c *gin.Context) {
	_, workspaceID, ok := identity(c)
	if !ok {
		return
	}

	sub, err := ic.itemService.Subscribe(workspaceID, c.Query("type"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	defer sub.Close()

	prepareSSE(c)
	c.SSEvent("ready", gin.H{"type": c.Query("type")})
	c.Writer.Flush()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			c.Writer.Flush()
		case e, open := <-sub.C:
			if !open {
				return
			}
			c.SSEvent(e.Action, e)
			c.Writer.Flush()
		}
	}
}
