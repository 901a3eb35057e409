// Package sqldb file: internal/adapter/datasource/sqldb/dialect.go
package sqldb

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Dialect 描述不同数据库在占位符、文本转换与大小写不敏感匹配上的差异
type Dialect struct {
	Name        string
	placeholder sq.PlaceholderFormat
	castType    string
	likeOp      string
}

var (
	DialectSQLite   = Dialect{Name: "sqlite", placeholder: sq.Question, castType: "TEXT", likeOp: "LIKE"}
	DialectMySQL    = Dialect{Name: "mysql", placeholder: sq.Question, castType: "CHAR", likeOp: "LIKE"}
	DialectPostgres = Dialect{Name: "postgres", placeholder: sq.Dollar, castType: "TEXT", likeOp: "ILIKE"}
)

// DialectFor 按驱动名返回方言
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite":
		return DialectSQLite, nil
	case "mysql":
		return DialectMySQL, nil
	case "postgres":
		return DialectPostgres, nil
	default:
		return Dialect{}, fmt.Errorf("不支持的数据库驱动: %q", driver)
	}
}
