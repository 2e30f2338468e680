package extractor

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMissingSheet 工作簿中没有对应的工作表，该类数据视为空
var ErrMissingSheet = errors.New("required sheet not found")

// MalformedDateError 日期单元格无法解析，整次提取失败
type MalformedDateError struct {
	Sheet string
	Row   int
	Value string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("sheet %q row %d: malformed date %q", e.Sheet, e.Row, e.Value)
}

// MissingColumnError 表头缺少必需列
type MissingColumnError struct {
	Sheet  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("sheet %q: missing column %q", e.Sheet, e.Column)
}
