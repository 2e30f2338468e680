package model

// Dataset 一次导入得到的四类数据
type Dataset struct {
	Followers []*FollowerRecord
	Visitors  []*VisitorMetricRecord
	Content   []*ContentMetricRecord
	Posts     []*PostRecord
}

// Empty 四类数据都为空
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Followers)+len(d.Visitors)+len(d.Content)+len(d.Posts) == 0
}
