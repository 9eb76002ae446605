package api

import (
	"budgeto/middleware"
	"budgeto/service"

	"github.com/gin-gonic/gin"
)

// SummaryHandler 月度汇总与预测
type SummaryHandler struct {
	aggregation *service.AggregationService
}

func NewSummaryHandler(aggregation *service.AggregationService) *SummaryHandler {
	return &SummaryHandler{aggregation: aggregation}
}

// MonthlySummary 月度支出与预算
// @Summary 获取月度汇总
// @Description 未登录时返回全零
// @Tags 统计
// @Produce json
// @Param month query string true "月份 (YYYY-MM)"
// @Success 200 {object} Response{data=service.MonthlySummary} "获取成功"
// @Failure 400 {object} Response "月份格式错误"
// @Router /api/monthly-summary [get]
func (h *SummaryHandler) MonthlySummary(c *gin.Context) {
	summary, err := h.aggregation.MonthlySummary(c.Request.Context(), middleware.CurrentUserID(c), c.Query("month"))
	if err != nil {
		respondError(c, err, "Failed to fetch monthly summary")
		return
	}
	Success(c, summary)
}

// Predictions 基于最近 5 条支出的预测
// @Summary 获取支出预测
// @Tags 统计
// @Produce json
// @Success 200 {object} Response{data=service.Prediction} "获取成功"
// @Router /api/predictions [get]
func (h *SummaryHandler) Predictions(c *gin.Context) {
	prediction, err := h.aggregation.Predict(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to calculate predictions")
		return
	}
	Success(c, prediction)
}
