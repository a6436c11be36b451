package controller

import (
	"tutalearn_backend/internal/model"
	"tutalearn_backend/internal/service"
	"tutalearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// requestLanguage 优先使用查询参数 lang，其次是登录用户的偏好语言
func requestLanguage(ctx *gin.Context, profiles *service.ProfileService) model.Language {
	if lang := ctx.Query("lang"); lang != "" {
		return model.ParseLanguage(lang)
	}
	if claims := util.GetUserFromContext(ctx); claims != nil && profiles != nil {
		return profiles.PreferredLanguage(ctx.Request.Context(), claims.UserID())
	}
	return model.DefaultLanguage
}
