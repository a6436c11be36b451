package controller

import (
	"net/http"
	"tutalearn_backend/internal/service"
	"tutalearn_backend/internal/util"
	"tutalearn_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WhatsAppController struct {
	WhatsAppService *service.WhatsAppService
	DisplayNumber   string
}

func NewWhatsAppController(whatsapp *service.WhatsAppService, displayNumber string) *WhatsAppController {
	return &WhatsAppController{WhatsAppService: whatsapp, DisplayNumber: displayNumber}
}

// @Summary 生成 WhatsApp 聊天链接
// @Tags WhatsApp
// @Produce json
// @Param phone query string false "手机号（默认使用 Tuta 的号码）"
// @Param message query string false "预填消息"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /whatsapp/link [get]
func (c *WhatsAppController) ChatLink(ctx *gin.Context) {
	phone := ctx.DefaultQuery("phone", c.DisplayNumber)
	if phone == "" {
		util.BadRequest(ctx, "phone parameter is required")
		return
	}

	util.Success(ctx, gin.H{
		"url":        service.ChatURL(phone, ctx.Query("message")),
		"phone":      service.FormatPhoneNumber(phone),
		"configured": c.WhatsAppService.IsConfigured(),
	})
}

// SimulateRequest defines model for WhatsApp demo
// swagger:model SimulateRequest
type SimulateRequest struct {
	Question string `json:"question" binding:"required"`
}

// @Summary 模拟 WhatsApp 回复
// @Tags WhatsApp
// @Accept json
// @Produce json
// @Param request body SimulateRequest true "问题"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /whatsapp/simulate [post]
func (c *WhatsAppController) Simulate(ctx *gin.Context) {
	var req SimulateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"reply": service.Simulate(req.Question)})
}

// @Summary WhatsApp 回调验证
// @Tags WhatsApp
// @Produce plain
// @Param hub.mode query string true "模式"
// @Param hub.verify_token query string true "验证令牌"
// @Param hub.challenge query string true "验证挑战码"
// @Success 200 {string} string "challenge"
// @Failure 403 {object} util.Response
// @Router /whatsapp/webhook [get]
func (c *WhatsAppController) VerifyWebhook(ctx *gin.Context) {
	challenge, ok := c.WhatsAppService.VerifyWebhook(
		ctx.Query("hub.mode"),
		ctx.Query("hub.verify_token"),
		ctx.Query("hub.challenge"),
	)
	if !ok {
		util.Forbidden(ctx)
		return
	}
	ctx.String(http.StatusOK, challenge)
}

// @Summary 接收 WhatsApp 消息
// @Description 由 Tuta 回答第一条消息并通过 WhatsApp 回复
// @Tags WhatsApp
// @Accept json
// @Produce json
// @Param payload body service.WebhookPayload true "回调数据"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /whatsapp/webhook [post]
func (c *WhatsAppController) ReceiveWebhook(ctx *gin.Context) {
	var payload service.WebhookPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	msg, ok := service.ParseIncoming(payload)
	if !ok {
		// 状态回执等非消息事件同样需要返回 200
		util.Success(ctx, gin.H{"handled": false})
		return
	}

	chat := c.WhatsAppService.HandleIncoming(ctx.Request.Context(), msg)
	if chat == nil {
		logger.Log.Debug("ignoring empty WhatsApp message", zap.String("type", msg.Type))
		util.Success(ctx, gin.H{"handled": false})
		return
	}
	util.Success(ctx, gin.H{"handled": true, "chatId": chat.ID})
}
