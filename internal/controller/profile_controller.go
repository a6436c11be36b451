package controller

import (
	"errors"
	"tutalearn_backend/internal/model"
	"tutalearn_backend/internal/service"
	"tutalearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const maxAvatarSize = 5 << 20

type ProfileController struct {
	ProfileService *service.ProfileService
}

func NewProfileController(profileService *service.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// @Summary 获取个人资料
// @Tags 个人资料
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Profile}
// @Failure 401 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, ok := c.ProfileService.GetProfile(ctx.Request.Context(), claims.UserID(), claims.Email)
	if !ok {
		util.InternalServerError(ctx)
		return
	}
	util.Success(ctx, profile)
}

// @Summary 更新个人资料
// @Description 手机号统一转换为 254 国家码格式
// @Tags 个人资料
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body model.ProfileUpdate true "资料字段"
// @Success 200 {object} util.Response{data=model.Profile}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /profile [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var update model.ProfileUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.ProfileService.UpdateProfile(ctx.Request.Context(), claims.UserID(), claims.Email, update)
	if errors.Is(err, util.ErrInvalidLanguage) {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err != nil {
		util.InternalServerError(ctx)
		return
	}
	util.Success(ctx, profile)
}

// @Summary 上传头像
// @Tags 个人资料
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "图片文件（png、jpg、jpeg、webp，最大 5MB）"
// @Success 200 {object} util.Response{data=model.Profile}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /profile/avatar [post]
func (c *ProfileController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}
	if header.Size > maxAvatarSize {
		util.BadRequest(ctx, "File too large (max 5MB)")
		return
	}

	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	profile, err := c.ProfileService.UploadAvatar(ctx.Request.Context(), claims.UserID(), claims.Email, header.Filename, file, header.Size)
	if errors.Is(err, util.ErrStorage) {
		util.InternalServerError(ctx)
		return
	}
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, profile)
}
