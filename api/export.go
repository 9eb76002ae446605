package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"budgeto/models"
	"budgeto/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeaders = []string{"ID", "Title", "Amount", "Category", "Date", "Created At"}

// ExportHandler 导出处理器
type ExportHandler struct {
	ledger *service.LedgerService
	limit  int
}

// NewExportHandler 创建导出处理器，limit 为每种账目最多导出的条数
func NewExportHandler(ledger *service.LedgerService, limit int) *ExportHandler {
	return &ExportHandler{ledger: ledger, limit: limit}
}

// ExportExcel 导出支出与收入到同一个工作簿
// @Summary 导出 Excel
// @Description 工作簿包含 Expenses 和 Income 两个工作表，末行为合计
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file "Excel 文件"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	ctx := c.Request.Context()
	expenses, err := h.ledger.ListForExport(ctx, models.KindExpense, h.limit)
	if err != nil {
		respondError(c, err, "Failed to fetch expenses")
		return
	}
	income, err := h.ledger.ListForExport(ctx, models.KindIncome, h.limit)
	if err != nil {
		respondError(c, err, "Failed to fetch income")
		return
	}

	f, err := buildWorkbook(expenses, income)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to generate Excel"))
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to generate Excel"))
		return
	}

	filename := fmt.Sprintf("budgeto_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, excelContentType, buf.Bytes())
}

// ExportCSV 导出单一类型的账目为 CSV
// @Summary 导出 CSV
// @Tags 导出
// @Produce text/csv
// @Param kind query string false "expense 或 income" default(expense)
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "kind 不合法"
// @Router /api/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	kind := models.LedgerKind(c.DefaultQuery("kind", string(models.KindExpense)))
	if !kind.Valid() {
		BadRequest(c, "Invalid kind, expected expense or income")
		return
	}

	entries, err := h.ledger.ListForExport(c.Request.Context(), kind, h.limit)
	if err != nil {
		respondError(c, err, "Failed to fetch "+kind.TableName())
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以便 Excel 正确识别 UTF-8
	buf.WriteString("\xEF\xBB\xBF")
	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}
	for _, e := range entries {
		if err := writer.Write(entryRecord(e)); err != nil {
			InternalError(c, "Failed to generate CSV")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", kind.TableName(), time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func entryRecord(e models.Entry) []string {
	return []string{
		e.ID,
		e.Title,
		strconv.FormatFloat(e.Amount, 'f', -1, 64),
		e.Category,
		e.Date.Format("2006-01-02"),
		e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// buildWorkbook 生成包含 Expenses 与 Income 工作表的工作簿
func buildWorkbook(expenses, income []models.Entry) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", "Expenses"); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet("Income"); err != nil {
		f.Close()
		return nil, err
	}

	for sheet, entries := range map[string][]models.Entry{"Expenses": expenses, "Income": income} {
		if err := writeEntrySheet(f, sheet, entries, headerStyle, totalStyle); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeEntrySheet(f *excelize.File, sheet string, entries []models.Entry, headerStyle, totalStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &exportHeaders); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "F1", headerStyle); err != nil {
		return err
	}
	f.SetColWidth(sheet, "A", "A", 38)
	f.SetColWidth(sheet, "B", "B", 30)
	f.SetColWidth(sheet, "C", "D", 14)
	f.SetColWidth(sheet, "E", "F", 20)

	var total float64
	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			e.ID,
			e.Title,
			e.Amount,
			e.Category,
			e.Date.Format("2006-01-02"),
			e.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
		total += e.Amount
	}

	totalRow := len(entries) + 2
	label, _ := excelize.CoordinatesToCellName(1, totalRow)
	last, _ := excelize.CoordinatesToCellName(len(exportHeaders), totalRow)
	amount, _ := excelize.CoordinatesToCellName(3, totalRow)
	count, _ := excelize.CoordinatesToCellName(4, totalRow)
	f.SetCellValue(sheet, label, "Total")
	f.SetCellValue(sheet, amount, total)
	f.SetCellValue(sheet, count, fmt.Sprintf("%d records", len(entries)))
	return f.SetCellStyle(sheet, label, last, totalStyle)
}
