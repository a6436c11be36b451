package controller

import (
	"tutalearn_backend/internal/model"
	"tutalearn_backend/internal/service"
	"tutalearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// RecordEventRequest defines model for analytics event
// swagger:model RecordEventRequest
type RecordEventRequest struct {
	EventType string                 `json:"eventType" binding:"required,max=50"`
	EventData map[string]interface{} `json:"eventData"`
}

// @Summary 记录学习行为事件
// @Tags 分析
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body RecordEventRequest true "事件"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /analytics/events [post]
func (c *AnalyticsController) RecordEvent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RecordEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if model.IsServerEvent(req.EventType) {
		util.BadRequest(ctx, util.ErrReservedEvent.Error())
		return
	}

	if !c.AnalyticsService.RecordEvent(ctx.Request.Context(), claims.UserID(), req.EventType, req.EventData) {
		util.InternalServerError(ctx)
		return
	}
	util.Created(ctx, nil)
}
