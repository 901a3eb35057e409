// Package grid file: internal/service/grid/decode.go
package grid

import (
	"GridAegis/internal/core/domain"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// numericKey 匹配十进制数字键：可选符号、数字、可选小数与指数；inf / nan / 十六进制不算数字
var numericKey = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// decodeWhere 支持三种写法：
//   - 字符串：原样透传的谓词
//   - 映射：键按字母序展开为条件；数字键 (或空键) 的值为原始谓词片段
//   - 列表：逐项保序，字符串项为原始谓词，单键映射项为条件
func decodeWhere(raw any) (domain.WhereSpec, error) {
	switch v := raw.(type) {
	case nil:
		return domain.WhereSpec{}, nil
	case string:
		return domain.WhereSpec{Raw: v}, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var spec domain.WhereSpec
		for _, k := range keys {
			cond, err := whereCondition(k, v[k])
			if err != nil {
				return domain.WhereSpec{}, err
			}
			spec.Conditions = append(spec.Conditions, cond)
		}
		return spec, nil
	case []any:
		var spec domain.WhereSpec
		for i, item := range v {
			switch it := item.(type) {
			case string:
				spec.Conditions = append(spec.Conditions, domain.WhereCondition{Value: it})
			case map[string]any:
				if len(it) != 1 {
					return domain.WhereSpec{}, fmt.Errorf("where[%d]: 条件项必须恰好包含一个键，实际为 %d 个", i, len(it))
				}
				for k, val := range it {
					cond, err := whereCondition(k, val)
					if err != nil {
						return domain.WhereSpec{}, err
					}
					spec.Conditions = append(spec.Conditions, cond)
				}
			default:
				return domain.WhereSpec{}, fmt.Errorf("where[%d]: 不支持的条件类型 %T", i, item)
			}
		}
		return spec, nil
	default:
		return domain.WhereSpec{}, fmt.Errorf("where: 不支持的类型 %T", raw)
	}
}

func whereCondition(key string, value any) (domain.WhereCondition, error) {
	key = strings.TrimSpace(key)
	if key == "" || isNumeric(key) {
		predicate, ok := value.(string)
		if !ok {
			return domain.WhereCondition{}, fmt.Errorf("where: 数字键 '%s' 的值必须是字符串谓词", key)
		}
		return domain.WhereCondition{Value: predicate}, nil
	}
	return domain.WhereCondition{Key: key, Value: value}, nil
}

func isNumeric(s string) bool {
	return numericKey.MatchString(s)
}

// decodeJoins 每一项可以是 [table, condition, type?] 形式的列表，也可以是 {table, condition, type} 映射
func decodeJoins(raw []any) ([]domain.JoinSpec, error) {
	joins := make([]domain.JoinSpec, 0, len(raw))
	for i, item := range raw {
		var j domain.JoinSpec
		switch it := item.(type) {
		case []any:
			if len(it) < 2 || len(it) > 3 {
				return nil, fmt.Errorf("joins[%d]: 需要 2 或 3 个元素，实际为 %d 个", i, len(it))
			}
			parts := make([]string, len(it))
			for k, p := range it {
				s, ok := p.(string)
				if !ok {
					return nil, fmt.Errorf("joins[%d][%d]: 必须是字符串", i, k)
				}
				parts[k] = s
			}
			j.Table, j.Condition = parts[0], parts[1]
			if len(parts) == 3 {
				j.Type = parts[2]
			}
		case map[string]any:
			j.Table, _ = it["table"].(string)
			j.Condition, _ = it["condition"].(string)
			j.Type, _ = it["type"].(string)
		default:
			return nil, fmt.Errorf("joins[%d]: 不支持的类型 %T", i, item)
		}
		joins = append(joins, j)
	}
	return joins, nil
}
