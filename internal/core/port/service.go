// Package port file: internal/core/port/service.go
package port

import (
	"errors"
	"fmt"
)

// 与表格组件约定的错误文案，保持与既有前端一致，不可随意修改
const (
	msgTableNotFound       = "Table doesn't exist."
	msgInvalidPrimaryKey   = "Invalid primary key."
	msgColumnNotFound      = "The column '%s' does not exist in the table '%s'."
	msgColumnCountMismatch = "Column count mismatch."
	msgMissingColumn       = "Missing column."
	msgInvalidRowID        = "Invalid DT_RowId."
	msgInvalidRowClass     = "Invalid DT_RowClass."
)

// ConfigError 表示表格配置与实时 schema 不符 (表、主键或列不存在)
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// Is 让同文案的 ConfigError 之间可以用 errors.Is 比较
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	return ok && t.Message == e.Message
}

// RequestError 表示请求的结构与配置不一致，或处理参数非法
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Is(target error) bool {
	t, ok := target.(*RequestError)
	return ok && t.Message == e.Message
}

// ErrGridNotFound 表示请求的 grid 未在配置中声明
var ErrGridNotFound = errors.New("grid not found")

// 标准错误
var (
	ErrTableNotFound       = &ConfigError{Message: msgTableNotFound}
	ErrInvalidPrimaryKey   = &ConfigError{Message: msgInvalidPrimaryKey}
	ErrColumnCountMismatch = &RequestError{Message: msgColumnCountMismatch}
	ErrMissingColumn       = &RequestError{Message: msgMissingColumn}
	ErrInvalidRowID        = &RequestError{Message: msgInvalidRowID}
	ErrInvalidRowClass     = &RequestError{Message: msgInvalidRowClass}
)

// NewColumnNotFoundError 构造 "列不存在" 配置错误
func NewColumnNotFoundError(column, table string) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(msgColumnNotFound, column, table)}
}

// UserMessage 若 err 是需要原样回显给表格组件的错误，返回其文案
func UserMessage(err error) (string, bool) {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Message, true
	}
	var re *RequestError
	if errors.As(err, &re) {
		return re.Message, true
	}
	return "", false
}

// ResponseSink 是终端响应的写出目标，*gin.Context 天然满足该接口
type ResponseSink interface {
	JSON(code int, obj any)
}
