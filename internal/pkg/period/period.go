package period

import (
	"fmt"
	"strings"
	"time"

	"Pulseboard/internal/model"
)

// Tag 统计区间
type Tag string

const (
	Lifetime      Tag = "LIFETIME"
	YearToDate    Tag = "YEAR_TO_DATE"
	QuarterToDate Tag = "QUARTER_TO_DATE"
	MonthToDate   Tag = "MONTH_TO_DATE"
)

// Tags 全部区间，从宽到窄
var Tags = []Tag{Lifetime, YearToDate, QuarterToDate, MonthToDate}

var aliases = map[string]Tag{
	"":                Lifetime,
	"LTD":             Lifetime,
	"LIFETIME":        Lifetime,
	"YTD":             YearToDate,
	"YEAR_TO_DATE":    YearToDate,
	"QTD":             QuarterToDate,
	"QUARTER_TO_DATE": QuarterToDate,
	"MTD":             MonthToDate,
	"MONTH_TO_DATE":   MonthToDate,
}

// ParseTag 支持全称与 LTD/YTD/QTD/MTD 缩写，大小写不敏感，空串视为 LIFETIME
func ParseTag(s string) (Tag, error) {
	tag, ok := aliases[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown period %q", s)
	}
	return tag, nil
}

// Short 缩写形式，用于缓存 key 与导出文件名
func (t Tag) Short() string {
	switch t {
	case YearToDate:
		return "YTD"
	case QuarterToDate:
		return "QTD"
	case MonthToDate:
		return "MTD"
	default:
		return "LTD"
	}
}

// LowerBound 返回区间起始日（含），LIFETIME 无下界时 ok=false
func LowerBound(tag Tag, ref model.Date) (model.Date, bool) {
	switch tag {
	case YearToDate:
		return model.NewDate(ref.Year(), time.January, 1), true
	case QuarterToDate:
		month := time.Month((int(ref.Month())-1)/3*3 + 1)
		return model.NewDate(ref.Year(), month, 1), true
	case MonthToDate:
		return model.NewDate(ref.Year(), ref.Month(), 1), true
	default:
		return model.Date{}, false
	}
}

// Dated 带日期索引的记录
type Dated interface {
	MetricDate() model.Date
}

// Filter 保留日期 >= 下界的记录；无下界时原样返回
func Filter[T Dated](rows []T, tag Tag, ref model.Date) []T {
	bound, ok := LowerBound(tag, ref)
	if !ok {
		return rows
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if !r.MetricDate().Before(bound) {
			out = append(out, r)
		}
	}
	return out
}

// Clock 提供参考日期，Now 与 Today 处于同一时区
type Clock interface {
	Today() model.Date
	Now() time.Time
}

// SystemClock 按指定时区取当天
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Today() model.Date {
	return model.DateOf(c.Now())
}

func (c SystemClock) Now() time.Time {
	now := time.Now()
	if c.Location != nil {
		now = now.In(c.Location)
	}
	return now
}

// FixedClock 固定日期，测试及回溯报表使用
type FixedClock model.Date

func (c FixedClock) Today() model.Date { return model.Date(c) }

// Now 固定日期的零点
func (c FixedClock) Now() time.Time { return model.Date(c).Time() }
