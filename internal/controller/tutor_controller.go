package controller

import (
	"strconv"
	"tutalearn_backend/internal/model"
	"tutalearn_backend/internal/service"
	"tutalearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TutorController struct {
	TutorService          *service.TutorService
	RecommendationService *service.RecommendationService
	ProfileService        *service.ProfileService
}

func NewTutorController(tutor *service.TutorService, recommendations *service.RecommendationService, profiles *service.ProfileService) *TutorController {
	return &TutorController{
		TutorService:          tutor,
		RecommendationService: recommendations,
		ProfileService:        profiles,
	}
}

// @Summary 向 AI 助教 Tuta 提问
// @Description 模型不可用时返回同语言的预设回答
// @Tags AI助教
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.TutorRequest true "问题"
// @Success 200 {object} util.Response{data=service.TutorAnswer}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /tutor/ask [post]
func (c *TutorController) Ask(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.TutorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Language == "" {
		req.Language = c.ProfileService.PreferredLanguage(ctx.Request.Context(), claims.UserID())
	}
	req.UserID = claims.UserID()

	util.Success(ctx, c.TutorService.AskTuta(ctx.Request.Context(), req))
}

// @Summary 获取主题的本地化示例
// @Tags AI助教
// @Produce json
// @Param topic query string true "主题" Enums(fractions, photosynthesis, multiplication)
// @Param lang query string false "语言" Enums(en, sw)
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /tutor/example [get]
func (c *TutorController) LocalExample(ctx *gin.Context) {
	topic := ctx.Query("topic")
	if topic == "" {
		util.BadRequest(ctx, "topic parameter is required")
		return
	}

	lang := requestLanguage(ctx, c.ProfileService)
	util.Success(ctx, gin.H{
		"topic":    topic,
		"language": lang,
		"example":  service.LocalExample(topic, lang),
	})
}

// @Summary 获取学习推荐
// @Description 根据年级和已完成课程推荐三个学习主题
// @Tags AI助教
// @Produce json
// @Security ApiKeyAuth
// @Param grade query int false "年级（默认使用资料中的年级）"
// @Param lang query string false "语言" Enums(en, sw)
// @Success 200 {object} util.Response{data=[]model.Recommendation}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /recommendations [get]
func (c *TutorController) Recommend(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	grade := 0
	if raw := ctx.Query("grade"); raw != "" {
		g, err := strconv.Atoi(raw)
		if err != nil || g < 0 || g > 12 {
			util.BadRequest(ctx, "grade must be between 0 and 12")
			return
		}
		grade = g
	}

	lang := model.DefaultLanguage
	if profile, ok := c.ProfileService.GetProfile(ctx.Request.Context(), claims.UserID(), claims.Email); ok {
		lang = model.ParseLanguage(string(profile.PreferredLanguage))
		if grade == 0 {
			grade = profile.GradeLevel
		}
	}
	if q := ctx.Query("lang"); q != "" {
		lang = model.ParseLanguage(q)
	}

	util.Success(ctx, c.RecommendationService.Recommend(ctx.Request.Context(), claims.UserID(), grade, lang))
}
