package extractor

import (
	"io"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Workbook 一个已打开的导出文件
type Workbook struct {
	f        *excelize.File
	sheets   []string
	date1904 bool
}

// Open 从任意 reader 读取 xlsx
func Open(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	return newWorkbook(f), nil
}

// OpenFile 从本地路径读取 xlsx
func OpenFile(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open workbook %s", path)
	}
	return newWorkbook(f), nil
}

func newWorkbook(f *excelize.File) *Workbook {
	wb := &Workbook{f: f, sheets: f.GetSheetList()}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

// Sheets 工作表名称，按工作簿中的顺序
func (w *Workbook) Sheets() []string {
	return slices.Clone(w.sheets)
}

// HasSheet 工作表名称精确匹配
func (w *Workbook) HasSheet(name string) bool {
	return slices.Contains(w.sheets, name)
}

// sheetLayout 工作表名、表头所在行（0 起）与需要投影的列
type sheetLayout struct {
	name      string
	headerRow int
	columns   []string
}

// table 投影后的数据区
type table struct {
	sheet     string
	firstRow  int
	rows      [][]string
	positions []int
}

func (w *Workbook) readTable(layout sheetLayout) (*table, error) {
	if !w.HasSheet(layout.name) {
		return nil, errors.Wrapf(ErrMissingSheet, "sheet %q", layout.name)
	}

	rows, err := w.f.GetRows(layout.name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", layout.name)
	}
	if len(rows) <= layout.headerRow {
		return nil, &MissingColumnError{Sheet: layout.name, Column: layout.columns[0]}
	}

	header := make(map[string]int, len(rows[layout.headerRow]))
	for i, name := range rows[layout.headerRow] {
		name = strings.TrimSpace(name)
		if _, seen := header[name]; !seen {
			header[name] = i
		}
	}

	positions := make([]int, len(layout.columns))
	for i, col := range layout.columns {
		pos, ok := header[col]
		if !ok {
			return nil, &MissingColumnError{Sheet: layout.name, Column: col}
		}
		positions[i] = pos
	}

	return &table{
		sheet:     layout.name,
		firstRow:  layout.headerRow + 2,
		rows:      rows[layout.headerRow+1:],
		positions: positions,
	}, nil
}

// each 逐行回调投影后的单元格，整行为空时跳过；line 为表格中的 1 起行号
func (t *table) each(fn func(line int, cells []string) error) error {
	cells := make([]string, len(t.positions))
	for i, row := range t.rows {
		blank := true
		for j, pos := range t.positions {
			cells[j] = ""
			if pos < len(row) {
				cells[j] = strings.TrimSpace(row[pos])
			}
			if cells[j] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if err := fn(t.firstRow+i, cells); err != nil {
			return err
		}
	}
	return nil
}
