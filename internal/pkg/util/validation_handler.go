package util

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// 错误信息里使用 json 字段名
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// ValidateDTO 只返回第一个校验失败的字段
func ValidateDTO(dto any) error {
	if err := validate.Struct(dto); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			firstError := vErrs[0]
			return fmt.Errorf("字段 [%s] 校验失败，规则 [%s]",
				firstError.Field(),
				firstError.Tag())
		}
		return err
	}
	return nil
}

// RequiredFields 结构体中带 required 规则的 json 字段
func RequiredFields(dto any) []string {
	t := reflect.TypeOf(dto)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	fields := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		rules := strings.Split(f.Tag.Get("validate"), ",")
		for _, r := range rules {
			if r == "required" {
				fields = append(fields, strings.SplitN(f.Tag.Get("json"), ",", 2)[0])
				break
			}
		}
	}
	return fields
}
