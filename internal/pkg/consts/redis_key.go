package consts

const (
	// SummaryKey summary:{workspace}:{period}
	SummaryKey = "summary:"
	// SeriesKey series:{workspace}:{period}
	SeriesKey = "series:"
	// WorkspaceListKey 工作区列表
	WorkspaceListKey = "workspace:list"
)

const (
	SummaryRefreshLock = "lock:summary:refresh"
)
