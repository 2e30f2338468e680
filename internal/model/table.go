package model

// Table 四张指标表
type Table string

const (
	TableFollowers      Table = "new_followers"
	TableVisitorMetrics Table = "visitor_metrics"
	TableContentMetrics Table = "content_metrics"
	TablePosts          Table = "posts"
)

// Tables 全部表，顺序即导入顺序
var Tables = []Table{TableFollowers, TableVisitorMetrics, TableContentMetrics, TablePosts}

// ParseTable 只接受已知表名
func ParseTable(s string) (Table, bool) {
	for _, t := range Tables {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// DateColumn 按日期删除时使用的列
func (t Table) DateColumn() string {
	if t == TablePosts {
		return "created_date"
	}
	return "date"
}

// KeyColumn 自然键中除 workspace 以外的列
func (t Table) KeyColumn() string {
	if t == TablePosts {
		return "post_title"
	}
	return "date"
}

// NewModel 返回该表对应模型的零值指针，用于 gorm Model()
func (t Table) NewModel() any {
	switch t {
	case TableFollowers:
		return &FollowerRecord{}
	case TableVisitorMetrics:
		return &VisitorMetricRecord{}
	case TableContentMetrics:
		return &ContentMetricRecord{}
	case TablePosts:
		return &PostRecord{}
	default:
		return nil
	}
}

// AllModels AutoMigrate 用
func AllModels() []any {
	return []any{&FollowerRecord{}, &VisitorMetricRecord{}, &ContentMetricRecord{}, &PostRecord{}}
}
