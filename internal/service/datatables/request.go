// Package datatables file: internal/service/datatables/request.go
package datatables

import (
	"GridAegis/internal/core/domain"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	columnParam  = regexp.MustCompile(`^columns\[(\d+)\]\[(data|orderable|searchable)\]$`)
	columnSearch = regexp.MustCompile(`^columns\[(\d+)\]\[search\]\[value\]$`)
	orderParam   = regexp.MustCompile(`^order\[(\d+)\]\[(column|dir)\]$`)
)

// ParseWireRequest 从 GET 参数解码表格组件的请求。
// "true"/"false" 形式的布尔标志在此处即转为 bool；数值按宽松规则解析，非法值视为 0，
// 但无法解析的 columns[i][data] 记为 -1，后续校验会据此报告缺失列。
// 列与排序指令按索引升序压紧为切片。
func ParseWireRequest(values url.Values) domain.WireRequest {
	req := domain.WireRequest{
		Draw:   intParam(values.Get("draw")),
		Start:  intParam(values.Get("start")),
		Length: intParam(values.Get("length")),
		Search: values.Get("search[value]"),
	}

	columns := make(map[int]*domain.WireColumn)
	column := func(idx int) *domain.WireColumn {
		c, ok := columns[idx]
		if !ok {
			c = &domain.WireColumn{Data: -1}
			columns[idx] = c
		}
		return c
	}
	orders := make(map[int]*domain.WireOrder)
	order := func(idx int) *domain.WireOrder {
		o, ok := orders[idx]
		if !ok {
			o = &domain.WireOrder{Column: -1}
			orders[idx] = o
		}
		return o
	}

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		val := vals[0]
		if m := columnParam.FindStringSubmatch(key); m != nil {
			idx, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			c := column(idx)
			switch m[2] {
			case "data":
				if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
					c.Data = n
				}
			case "orderable":
				c.Orderable = val == "true"
			case "searchable":
				c.Searchable = val == "true"
			}
			continue
		}
		if m := columnSearch.FindStringSubmatch(key); m != nil {
			if idx, err := strconv.Atoi(m[1]); err == nil {
				column(idx).Search = val
			}
			continue
		}
		if m := orderParam.FindStringSubmatch(key); m != nil {
			idx, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			o := order(idx)
			if m[2] == "column" {
				if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
					o.Column = n
				}
			} else {
				o.Dir = val
			}
		}
	}

	for _, idx := range sortedKeys(columns) {
		req.Columns = append(req.Columns, *columns[idx])
	}
	for _, idx := range sortedKeys(orders) {
		req.Order = append(req.Order, *orders[idx])
	}
	return req
}

func sortedKeys[T any](m map[int]T) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// intParam 宽松解析整数，非法或缺失时为 0
func intParam(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
