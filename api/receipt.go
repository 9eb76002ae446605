package api

import (
	"budgeto/service"

	"github.com/gin-gonic/gin"
)

// ReceiptRequest OCR 识别出的小票文本
type ReceiptRequest struct {
	Text string `json:"text" binding:"required" example:"CORNER MARKET\nTOTAL $5.99"`
}

// ParseReceipt 从小票文本提取标题与金额，用于预填表单
// @Summary 解析小票文本
// @Description 金额取文本中最大的数字，标题取第一行（最多 50 个字符）
// @Tags 账目
// @Accept json
// @Produce json
// @Param request body ReceiptRequest true "小票文本"
// @Success 200 {object} Response{data=service.ReceiptDraft} "解析成功"
// @Failure 400 {object} Response "文本为空"
// @Router /api/receipts/parse [post]
func ParseReceipt(c *gin.Context) {
	var req ReceiptRequest
	if !bindJSON(c, &req, nil, "Receipt text is required") {
		return
	}

	draft, err := service.ParseReceipt(req.Text)
	if err != nil {
		respondError(c, err, "Failed to parse receipt")
		return
	}
	Success(c, draft)
}
