package extractor

import (
	"sort"

	"Pulseboard/internal/model"

	"github.com/pkg/errors"
)

const (
	SheetFollowers = "New followers"
	SheetVisitors  = "Visitor metrics"
	SheetContent   = "Metrics"
	SheetPosts     = "All posts"
)

var (
	followersLayout = sheetLayout{
		name:      SheetFollowers,
		headerRow: 0,
		columns:   []string{"Date", "Total followers"},
	}
	visitorsLayout = sheetLayout{
		name:      SheetVisitors,
		headerRow: 0,
		columns:   []string{"Date", "Total unique visitors (total)", "Total page views (total)"},
	}
	contentLayout = sheetLayout{
		name:      SheetContent,
		headerRow: 1,
		columns: []string{
			"Date",
			"Unique impressions (organic)",
			"Clicks (total)",
			"Reactions (total)",
			"Reposts (total)",
			"Engagement rate (total)",
		},
	}
	postsLayout = sheetLayout{
		name:      SheetPosts,
		headerRow: 1,
		columns: []string{
			"Post title",
			"Post link",
			"Created date",
			"Impressions",
			"Clicks",
			"Click through rate (CTR)",
			"Likes",
			"Comments",
			"Reposts",
			"Follows",
			"Engagement rate",
		},
	}
)

// Family 指标文件类型
type Family int

const (
	FamilyUnknown Family = iota
	FamilyFollowers
	FamilyVisitors
	FamilyContent
)

func (f Family) String() string {
	switch f {
	case FamilyFollowers:
		return "followers"
	case FamilyVisitors:
		return "visitors"
	case FamilyContent:
		return "content"
	default:
		return "unknown"
	}
}

// Detect 按 粉丝 → 访客 → 内容 的固定顺序取第一个存在的工作表
func Detect(wb *Workbook) (Family, error) {
	switch {
	case wb.HasSheet(SheetFollowers):
		return FamilyFollowers, nil
	case wb.HasSheet(SheetVisitors):
		return FamilyVisitors, nil
	case wb.HasSheet(SheetContent):
		return FamilyContent, nil
	default:
		return FamilyUnknown, errors.Wrap(ErrMissingSheet, "none of the metric sheets found")
	}
}

// Metrics 单个指标文件的提取结果，只有 Family 对应的字段有值
type Metrics struct {
	Family    Family
	Followers []*model.FollowerRecord
	Visitors  []*model.VisitorMetricRecord
	Content   []*model.ContentMetricRecord
}

// ExtractMetrics 识别文件类型后调用对应的提取函数
func ExtractMetrics(wb *Workbook) (*Metrics, error) {
	family, err := Detect(wb)
	if err != nil {
		return nil, err
	}

	out := &Metrics{Family: family}
	switch family {
	case FamilyFollowers:
		out.Followers, err = ExtractFollowers(wb)
	case FamilyVisitors:
		out.Visitors, err = ExtractVisitors(wb)
	case FamilyContent:
		out.Content, err = ExtractContent(wb)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExtractFollowers 读取 "New followers"
func ExtractFollowers(wb *Workbook) ([]*model.FollowerRecord, error) {
	t, err := wb.readTable(followersLayout)
	if err != nil {
		return nil, err
	}

	var rows []*model.FollowerRecord
	err = t.each(func(line int, cells []string) error {
		date, ok := wb.parseDate(cells[0])
		if !ok {
			return &MalformedDateError{Sheet: t.sheet, Row: line, Value: cells[0]}
		}
		rows = append(rows, &model.FollowerRecord{
			Date:           date,
			TotalFollowers: parseCount(cells[1]),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dedupeByDate(rows), nil
}

// ExtractVisitors 读取 "Visitor metrics"
func ExtractVisitors(wb *Workbook) ([]*model.VisitorMetricRecord, error) {
	t, err := wb.readTable(visitorsLayout)
	if err != nil {
		return nil, err
	}

	var rows []*model.VisitorMetricRecord
	err = t.each(func(line int, cells []string) error {
		date, ok := wb.parseDate(cells[0])
		if !ok {
			return &MalformedDateError{Sheet: t.sheet, Row: line, Value: cells[0]}
		}
		rows = append(rows, &model.VisitorMetricRecord{
			Date:                date,
			TotalUniqueVisitors: parseCount(cells[1]),
			TotalPageViews:      parseCount(cells[2]),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dedupeByDate(rows), nil
}

// ExtractContent 读取 "Metrics"，表头在第二行
func ExtractContent(wb *Workbook) ([]*model.ContentMetricRecord, error) {
	t, err := wb.readTable(contentLayout)
	if err != nil {
		return nil, err
	}

	var rows []*model.ContentMetricRecord
	err = t.each(func(line int, cells []string) error {
		date, ok := wb.parseDate(cells[0])
		if !ok {
			return &MalformedDateError{Sheet: t.sheet, Row: line, Value: cells[0]}
		}
		rows = append(rows, &model.ContentMetricRecord{
			Date:              date,
			UniqueImpressions: parseCount(cells[1]),
			ClicksTotal:       parseCount(cells[2]),
			ReactionsTotal:    parseCount(cells[3]),
			RepostsTotal:      parseCount(cells[4]),
			EngagementRate:    parseRate(cells[5]),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dedupeByDate(rows), nil
}

// ExtractPosts 读取 "All posts"，表头在第二行；没有标题的行无法定位，直接跳过
func ExtractPosts(wb *Workbook) ([]*model.PostRecord, error) {
	t, err := wb.readTable(postsLayout)
	if err != nil {
		return nil, err
	}

	// 工作表存在但没有数据行时返回空切片，与缺少工作表区分
	rows := []*model.PostRecord{}
	index := make(map[string]int)
	err = t.each(func(line int, cells []string) error {
		if cells[0] == "" {
			return nil
		}
		created, ok := wb.parseDate(cells[2])
		if !ok {
			return &MalformedDateError{Sheet: t.sheet, Row: line, Value: cells[2]}
		}
		post := &model.PostRecord{
			PostTitle:        cells[0],
			PostLink:         cells[1],
			CreatedDate:      created,
			Impressions:      parseCount(cells[3]),
			Clicks:           parseCount(cells[4]),
			ClickThroughRate: parseRate(cells[5]),
			Likes:            parseCount(cells[6]),
			Comments:         parseCount(cells[7]),
			Reposts:          parseCount(cells[8]),
			Follows:          parseCount(cells[9]),
			EngagementRate:   parseRate(cells[10]),
		}
		// 同名帖子后者覆盖前者
		if i, dup := index[post.PostTitle]; dup {
			rows[i] = post
			return nil
		}
		index[post.PostTitle] = len(rows)
		rows = append(rows, post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// dedupeByDate 同一天出现多次时保留最后一行，并按日期升序
func dedupeByDate[T interface{ MetricDate() model.Date }](rows []T) []T {
	index := make(map[model.Date]int, len(rows))
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if i, dup := index[r.MetricDate()]; dup {
			out[i] = r
			continue
		}
		index[r.MetricDate()] = len(out)
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MetricDate().Before(out[j].MetricDate())
	})
	return out
}
