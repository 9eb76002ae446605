package api

import (
	"strings"

	"budgeto/models"
	"budgeto/service"

	"github.com/gin-gonic/gin"
)

// EntryRequest 新增支出/收入请求
type EntryRequest struct {
	Title    string   `json:"title" binding:"required" example:"Lunch"`
	Amount   *float64 `json:"amount" binding:"required,gte=0" example:"12.5"`
	Category string   `json:"category" binding:"omitempty,max=50" example:"Food"`
	Date     string   `json:"date" example:"2024-05-20"`
}

// 标题长度按去除首尾空白后的字符数在 service 中校验
var entryBindingMessages = map[string]string{
	"Title.required":  "All fields are required",
	"Amount.required": "All fields are required",
	"Amount.gte":      "Amount cannot be negative",
	"Category.max":    "Invalid category",
	"amount.type":     "Amount must be a number",
}

// LedgerHandler 支出与收入共用的处理器，按 kind 区分
type LedgerHandler struct {
	kind   models.LedgerKind
	ledger *service.LedgerService
}

// NewLedgerHandler 创建账目处理器
func NewLedgerHandler(kind models.LedgerKind, ledger *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{kind: kind, ledger: ledger}
}

// Create 新增账目
// @Summary 新增支出/收入
// @Description 类别必须属于对应类型的枚举，未填写时为 Other；date 支持 YYYY-MM-DD 或 RFC3339
// @Tags 账目
// @Accept json
// @Produce json
// @Param request body EntryRequest true "账目信息"
// @Success 200 {object} Response{data=models.Entry} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/expenses [post]
// @Router /api/income [post]
func (h *LedgerHandler) Create(c *gin.Context) {
	var req EntryRequest
	if !bindJSON(c, &req, entryBindingMessages, "All fields are required") {
		return
	}

	entry, err := h.ledger.Create(c.Request.Context(), h.kind, service.EntryInput{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
		Date:     req.Date,
	})
	if err != nil {
		respondError(c, err, "Failed to add "+strings.ToLower(h.kind.Label()))
		return
	}

	SuccessWithMessage(c, h.kind.Label()+" added successfully!", entry)
}

// List 最近的账目
// @Summary 获取支出/收入列表
// @Description 按账目日期倒序，最多返回 ledger.list_limit 条
// @Tags 账目
// @Produce json
// @Success 200 {object} Response{data=[]models.Entry} "获取成功"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/expenses [get]
// @Router /api/income [get]
func (h *LedgerHandler) List(c *gin.Context) {
	entries, err := h.ledger.ListRecent(c.Request.Context(), h.kind)
	if err != nil {
		respondError(c, err, h.fetchFailure())
		return
	}
	Success(c, entries)
}

func (h *LedgerHandler) fetchFailure() string {
	if h.kind == models.KindIncome {
		return "Failed to fetch income"
	}
	return "Failed to fetch expenses"
}
