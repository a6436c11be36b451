package controller

import (
	"net/http"
	"tutalearn_backend/internal/model"
	"tutalearn_backend/internal/service"
	"tutalearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
	ProfileService *service.ProfileService
}

func NewContentController(contentService *service.ContentService, profileService *service.ProfileService) *ContentController {
	return &ContentController{ContentService: contentService, ProfileService: profileService}
}

// @Summary 获取科目列表
// @Tags 课程内容
// @Produce json
// @Param lang query string false "显示语言" Enums(en, sw)
// @Success 200 {object} util.Response{data=[]service.LocalizedSubject}
// @Router /subjects [get]
func (c *ContentController) ListSubjects(ctx *gin.Context) {
	lang := requestLanguage(ctx, c.ProfileService)
	subjects := c.ContentService.ListSubjects(ctx.Request.Context())
	util.Success(ctx, service.AdaptSubjects(subjects, lang))
}

// @Summary 获取课程列表
// @Description 除 search 外均为精确匹配，search 在两种语言的标题和描述中做不区分大小写的子串匹配
// @Tags 课程内容
// @Produce json
// @Param subject_id query string false "科目ID"
// @Param grade_level query int false "年级"
// @Param difficulty query string false "难度" Enums(beginner, intermediate, advanced)
// @Param language query string false "课程语言" Enums(en, sw)
// @Param search query string false "搜索关键词"
// @Param lang query string false "显示语言" Enums(en, sw)
// @Success 200 {object} util.Response{data=[]model.LocalizedLesson}
// @Failure 400 {object} util.Response
// @Router /lessons [get]
func (c *ContentController) ListLessons(ctx *gin.Context) {
	var filter model.LessonFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lang := requestLanguage(ctx, c.ProfileService)
	lessons := c.ContentService.ListLessons(ctx.Request.Context(), filter)
	util.Success(ctx, service.AdaptLessons(lessons, lang))
}

// @Summary 获取课程详情
// @Tags 课程内容
// @Produce json
// @Param id path string true "课程ID"
// @Param lang query string false "显示语言" Enums(en, sw)
// @Success 200 {object} util.Response{data=model.LocalizedLesson}
// @Failure 404 {object} util.Response
// @Router /lessons/{id} [get]
func (c *ContentController) GetLesson(ctx *gin.Context) {
	lesson, ok := c.ContentService.GetLesson(ctx.Request.Context(), ctx.Param("id"))
	if !ok {
		util.Error(ctx, http.StatusNotFound, util.ErrLessonNotFound.Error())
		return
	}

	util.Success(ctx, service.AdaptLesson(*lesson, requestLanguage(ctx, c.ProfileService)))
}

// @Summary 获取本地化改编的课程
// @Description 将西方例子替换为本地例子，每次替换记录在 culturalAdaptations 中
// @Tags 课程内容
// @Produce json
// @Param id path string true "课程ID"
// @Param lang query string false "目标语言" Enums(en, sw)
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /lessons/{id}/adapted [get]
func (c *ContentController) GetAdaptedLesson(ctx *gin.Context) {
	lesson, ok := c.ContentService.GetLesson(ctx.Request.Context(), ctx.Param("id"))
	if !ok {
		util.Error(ctx, http.StatusNotFound, util.ErrLessonNotFound.Error())
		return
	}

	util.Success(ctx, service.AdaptToLocalContext(*lesson, requestLanguage(ctx, c.ProfileService)))
}

// GenerateLessonRequest defines model for lesson draft generation
// swagger:model GenerateLessonRequest
type GenerateLessonRequest struct {
	Topic      string         `json:"topic" binding:"required,max=200"`
	GradeLevel int            `json:"gradeLevel" binding:"min=1,max=12"`
	Language   model.Language `json:"language"`
	Save       bool           `json:"save"`
}

// @Summary 生成课程草稿
// @Description 按模板生成带本地化内容的课程，save 为 true 时保存为启用课程
// @Tags 课程内容
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body GenerateLessonRequest true "草稿参数"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /lessons/generate [post]
func (c *ContentController) GenerateLesson(ctx *gin.Context) {
	var req GenerateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Language != "" && !req.Language.Valid() {
		util.BadRequest(ctx, util.ErrInvalidLanguage.Error())
		return
	}

	lesson, subject := service.GenerateLessonDraft(req.Topic, req.GradeLevel, req.Language)
	lesson.SubjectID = c.ContentService.ResolveSubjectID(ctx.Request.Context(), subject)

	if !req.Save {
		util.Success(ctx, lesson)
		return
	}

	if !c.ContentService.SaveLesson(ctx.Request.Context(), &lesson) {
		util.InternalServerError(ctx)
		return
	}
	util.Created(ctx, lesson)
}
