// Package domain file: internal/core/domain/datatables_models.go
package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// 行注解在 JSON 中使用的键名
const (
	RowIDKey    = "DT_RowId"
	RowDataKey  = "DT_RowData"
	RowClassKey = "DT_RowClass"
)

// RowIDMode 决定每一行附带何种行标识
type RowIDMode string

const (
	RowIDModeID   RowIDMode = "id"
	RowIDModeData RowIDMode = "data"
	RowIDModeNone RowIDMode = "none"
)

// WireRequest 是表格组件通过 GET 参数发送的分页/排序/过滤状态，已在边界处解码为强类型。
type WireRequest struct {
	Draw    int
	Start   int
	Length  int
	Columns []WireColumn
	Order   []WireOrder
	Search  string
}

// WireColumn 是请求中的单列描述。Data 为 -1 表示索引无法解析。
// Name 由请求校验阶段填入对应的配置列表达式。
type WireColumn struct {
	Data       int
	Name       string
	Orderable  bool
	Searchable bool
	Search     string
}

// WireOrder 是单个排序指令
type WireOrder struct {
	Column int
	Dir    string
}

// ColumnRef 是对原始列表达式解析后的视图
type ColumnRef struct {
	Bare      string
	Table     string
	Qualified string
}

// Row 是响应中的一行：按列顺序排列的单元格，外加可选的行注解。
type Row struct {
	Cells    []any
	RowID    any
	HasRowID bool
	RowData  map[string]any
	RowClass string
}

// MarshalJSON 没有注解的行编码为数组；带注解的行编码为 "0".."n-1" 加注解键的对象。
func (r Row) MarshalJSON() ([]byte, error) {
	if !r.HasRowID && r.RowData == nil && r.RowClass == "" {
		if r.Cells == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.Cells)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	writeKey := func(key string, value any) error {
		encoded, err := json.Marshal(value)
		if err != nil {
			return err
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString(strconv.Quote(key))
		buf.WriteByte(':')
		buf.Write(encoded)
		return nil
	}

	for i, cell := range r.Cells {
		if err := writeKey(strconv.Itoa(i), cell); err != nil {
			return nil, err
		}
	}
	if r.HasRowID {
		if err := writeKey(RowIDKey, r.RowID); err != nil {
			return nil, err
		}
	}
	if r.RowData != nil {
		if err := writeKey(RowDataKey, r.RowData); err != nil {
			return nil, err
		}
	}
	if r.RowClass != "" {
		if err := writeKey(RowClassKey, r.RowClass); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Response 是返回给表格组件的响应信封
type Response struct {
	Draw            int   `json:"draw"`
	RecordsTotal    int64 `json:"recordsTotal"`
	RecordsFiltered int64 `json:"recordsFiltered"`
	Data            []Row `json:"data"`
}
