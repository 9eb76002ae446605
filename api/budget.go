package api

import (
	"budgeto/middleware"
	"budgeto/service"

	"github.com/gin-gonic/gin"
)

// BudgetRequest 保存月度预算请求
type BudgetRequest struct {
	Month  string   `json:"month" binding:"required" example:"2024-05"`
	Amount *float64 `json:"amount" binding:"required,gte=0" example:"1500"`
}

// BudgetHandler 月度预算处理器
type BudgetHandler struct {
	budgets *service.BudgetService
}

func NewBudgetHandler(budgets *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

// Upsert 保存当前用户某月的预算，已存在则覆盖金额
// @Summary 保存月度预算
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BudgetRequest true "预算信息"
// @Success 200 {object} Response{data=models.Budget} "保存成功"
// @Failure 400 {object} Response "月份或金额不合法"
// @Failure 401 {object} Response "未登录"
// @Router /api/budgets [post]
func (h *BudgetHandler) Upsert(c *gin.Context) {
	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid month or amount")
		return
	}

	budget, err := h.budgets.Upsert(c.Request.Context(), middleware.CurrentUserID(c), req.Month, req.Amount)
	if err != nil {
		respondError(c, err, "Failed to save budget")
		return
	}
	SuccessWithMessage(c, "Budget saved", budget)
}

// List 当前用户的预算，未登录返回空列表
// @Summary 获取预算列表
// @Description 按月份倒序；未登录时返回空列表
// @Tags 预算
// @Produce json
// @Success 200 {object} Response{data=[]models.Budget} "获取成功"
// @Router /api/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	budgets, err := h.budgets.ListByUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err, "Failed to fetch budgets")
		return
	}
	Success(c, budgets)
}
