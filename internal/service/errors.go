package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid       = errors.New("参数错误")
	ErrIncompleteUpload   = errors.New("保存到数据库需要同时上传粉丝、访客、内容三个文件")
	ErrMalformedWorkbook  = errors.New("无法读取的导出文件")
	ErrMalformedDate      = errors.New("导出文件中存在无法解析的日期")
	ErrMissingSheet       = errors.New("导出文件中缺少所需的工作表")
	ErrEntryIncomplete    = errors.New("录入数据不完整")
	ErrUnknownTable       = errors.New("未知的数据表")
	ErrNoData             = errors.New("该工作区没有数据，请先上传文件")
	ErrPostNotFound       = errors.New("帖子不存在")
	ErrPersistenceWrite   = errors.New("数据写入失败")
	ErrChangeLogDisabled  = errors.New("变更记录未启用")
	ErrArchiveUnavailable = errors.New("归档存储未启用")
	UnauthorizedError     = errors.New("权限不足")
	UnExpectedError       = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:       BadRequest,
	ErrIncompleteUpload:   BadRequest,
	ErrMalformedWorkbook:  BadRequest,
	ErrMalformedDate:      BadRequest,
	ErrMissingSheet:       BadRequest,
	ErrEntryIncomplete:    BadRequest,
	ErrUnknownTable:       BadRequest,
	ErrNoData:             NotFound,
	ErrPostNotFound:       NotFound,
	ErrPersistenceWrite:   InternalServerError,
	ErrChangeLogDisabled:  BadRequest,
	ErrArchiveUnavailable: BadRequest,
	UnauthorizedError:     Unauthorized,
	UnExpectedError:       InternalServerError,
}

// CodeOf 按 errors.Is 查找业务码，支持包装过的错误
func CodeOf(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return 0, false
}
