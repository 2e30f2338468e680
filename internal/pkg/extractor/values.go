package extractor

import (
	"math"
	"strconv"
	"strings"
	"time"

	"Pulseboard/internal/model"

	"github.com/xuri/excelize/v2"
)

// 导出文件里出现过的文本日期格式
var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
	"2006/1/2",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// parseDate 支持文本日期与 Excel 序列号
func (w *Workbook) parseDate(raw string) (model.Date, bool) {
	if raw == "" {
		return model.Date{}, false
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial <= 0 || math.IsNaN(serial) || math.IsInf(serial, 0) {
			return model.Date{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, w.date1904)
		if err != nil {
			return model.Date{}, false
		}
		return model.DateOf(t), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return model.DateOf(t), true
		}
	}
	return model.Date{}, false
}

// parseNumber 去掉千分位，百分号按 /100 处理。
// 空值、无法解析、NaN 一律视为 0，这是有损的：缺失与真实的 0 无法区分。
func parseNumber(raw string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0
	}
	scale := 1.0
	if strings.HasSuffix(s, "%") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		scale = 100
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v / scale
}

// parseCount 计数不允许为负
func parseCount(raw string) int64 {
	v := parseNumber(raw)
	if v < 0 {
		return 0
	}
	return int64(math.Round(v))
}

// parseRate 比率为小数形式，负值按 0 处理
func parseRate(raw string) float64 {
	v := parseNumber(raw)
	if v < 0 {
		return 0
	}
	return v
}
