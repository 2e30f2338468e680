package consts

const (
	// DefaultEntryLimit 删除选择器默认返回条数
	DefaultEntryLimit = 100
	// MaxEntryLimit 删除选择器最多返回条数
	MaxEntryLimit = 1000
)

const (
	// XlsxContentType 归档对象的 Content-Type
	XlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const (
	ChangeActionCreate      = "create"
	ChangeActionDelete      = "delete"
	ChangeActionDeleteRange = "delete_range"
	ChangeActionIngest      = "ingest"
)
