package controller

import (
	"tutalearn_backend/internal/model"
	"tutalearn_backend/internal/service"
	"tutalearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
	StatsService    *service.StatsService
}

func NewProgressController(progressService *service.ProgressService, statsService *service.StatsService) *ProgressController {
	return &ProgressController{ProgressService: progressService, StatsService: statsService}
}

// @Summary 获取学习进度
// @Description 获取当前用户的学习进度，可按课程过滤
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param lesson_id query string false "课程ID"
// @Success 200 {object} util.Response{data=[]model.ProgressRecord}
// @Failure 401 {object} util.Response
// @Router /progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	records := c.ProgressService.GetProgress(ctx.Request.Context(), claims.UserID(), ctx.Query("lesson_id"))
	util.Success(ctx, records)
}

// @Summary 创建或更新课程进度
// @Description 未提供的字段保持原值，timeSpent 只增不减
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param lessonId path string true "课程ID"
// @Param request body model.ProgressUpdate true "进度字段"
// @Success 200 {object} util.Response{data=[]model.ProgressRecord}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /progress/{lessonId} [put]
func (c *ProgressController) UpsertProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var update model.ProgressUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if update.Status != nil && !update.Status.Valid() {
		util.BadRequest(ctx, util.ErrInvalidStatus.Error())
		return
	}

	lessonID := ctx.Param("lessonId")
	if !c.ProgressService.UpsertProgress(ctx.Request.Context(), claims.UserID(), lessonID, update) {
		util.InternalServerError(ctx)
		return
	}

	util.Success(ctx, c.ProgressService.GetProgress(ctx.Request.Context(), claims.UserID(), lessonID))
}

// @Summary 获取学习统计
// @Description 课程数量、总学习时长和当前连续学习天数
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.UserStats}
// @Failure 401 {object} util.Response
// @Router /stats [get]
func (c *ProgressController) GetStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, c.StatsService.GetUserStats(ctx.Request.Context(), claims.UserID()))
}
