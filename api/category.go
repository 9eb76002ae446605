package api

import (
	"budgeto/models"

	"github.com/gin-gonic/gin"
)

// CategoriesResponse 支出与收入类别枚举
type CategoriesResponse struct {
	Expense []string `json:"expense"`
	Income  []string `json:"income"`
}

// Categories 获取类别枚举
// @Summary 获取类别列表
// @Tags 账目
// @Produce json
// @Success 200 {object} Response{data=CategoriesResponse} "获取成功"
// @Router /api/categories [get]
func Categories(c *gin.Context) {
	Success(c, CategoriesResponse{
		Expense: models.KindExpense.Categories(),
		Income:  models.KindIncome.Categories(),
	})
}
