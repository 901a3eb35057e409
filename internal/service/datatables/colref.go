// Package datatables file: internal/service/datatables/colref.go
package datatables

import (
	"GridAegis/internal/core/domain"
	"regexp"
	"strings"
)

var (
	quoteStripper   = strings.NewReplacer("`", "", "'", "")
	firstParenGroup = regexp.MustCompile(`\((.*?)\)`)
	spaceOrDot      = regexp.MustCompile(`[\s.]+`)
	spaceOnly       = regexp.MustCompile(`\s+`)
)

// ParseColumn 将原始列表达式 (可能带表名限定、别名、函数包装) 解析为 ColumnRef。
// defaultTable 用于表达式中没有表名限定时。
//
// 这不是通用 SQL 解析器：表达式含括号时，只保留第一组括号内的内容再做切分，
// 因此 `COUNT(x) AS total` 的外层别名会被丢弃，解析结果为 `x`。
func ParseColumn(expr, defaultTable string) domain.ColumnRef {
	return domain.ColumnRef{
		Bare:      columnName(expr),
		Table:     tableName(expr, defaultTable),
		Qualified: qualifiedName(expr),
	}
}

// unwrap 去除反引号与单引号，并在存在括号时替换为第一组括号内的内容
func unwrap(expr string) string {
	expr = quoteStripper.Replace(expr)
	if m := firstParenGroup.FindStringSubmatch(expr); m != nil {
		expr = m[1]
	}
	return expr
}

// pickName 在切分后的 token 中取列名：倒数第二个是 "as" 时取别名之前的标识符，否则取最后一个
func pickName(parts []string) string {
	n := len(parts)
	if n >= 2 && strings.EqualFold(parts[n-2], "as") {
		if n < 3 {
			return ""
		}
		return parts[n-3]
	}
	return parts[n-1]
}

func columnName(expr string) string {
	return pickName(spaceOrDot.Split(unwrap(expr), -1))
}

// tableName 在去掉引号与括号之后才检查 '.'，因此 DATE(orders.created_at) 的表名是 orders
func tableName(expr, defaultTable string) string {
	expr = unwrap(expr)
	if strings.Contains(expr, ".") {
		return spaceOrDot.Split(expr, -1)[0]
	}
	return defaultTable
}

// qualifiedName 与 columnName 相同，但只按空白切分，保留 `table.column` 形式的限定
func qualifiedName(expr string) string {
	return pickName(spaceOnly.Split(unwrap(expr), -1))
}
