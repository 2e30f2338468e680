package dto

// ChangeLogQueryDTO 变更记录分页
type ChangeLogQueryDTO struct {
	Limit  int64 `form:"limit" validate:"omitempty,min=1,max=200"`
	Offset int64 `form:"offset" validate:"omitempty,min=0"`
}
