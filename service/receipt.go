package service

import (
	"regexp"
	"strconv"
	"strings"

	"budgeto/apperr"
)

const (
	receiptTitleLength  = 50
	defaultReceiptTitle = "Receipt"
)

var receiptAmountPattern = regexp.MustCompile(`[$€£]?\s*(\d+\.?\d{0,2})`)

// ReceiptDraft 从小票文本识别出的表单预填值，Amount 为 nil 表示未识别到金额
type ReceiptDraft struct {
	Title  string   `json:"title"`
	Amount *float64 `json:"amount"`
}

// ParseReceipt 解析 OCR 得到的小票文本
// 金额取所有数字中最大的一个（通常是合计），标题取第一行非空文本
func ParseReceipt(text string) (*ReceiptDraft, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("Receipt text is required")
	}

	cleaned := strings.Join(strings.Fields(text), " ")

	var amount *float64
	for _, m := range receiptAmountPattern.FindAllStringSubmatch(cleaned, -1) {
		v, err := strconv.ParseFloat(strings.TrimSuffix(m[1], "."), 64)
		if err != nil {
			continue
		}
		if amount == nil || v > *amount {
			value := v
			amount = &value
		}
	}

	return &ReceiptDraft{Title: receiptTitle(text), Amount: amount}, nil
}

func receiptTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > receiptTitleLength {
			line = strings.TrimSpace(string(runes[:receiptTitleLength]))
		}
		return line
	}
	return defaultReceiptTitle
}
