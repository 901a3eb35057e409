// file: internal/service/datatables/fakes_test.go
package datatables

import (
	"GridAegis/internal/core/port"
	"context"
	"fmt"
	"strings"
)

// fakeCatalog 以内存中的 表 -> 字段 映射模拟实时 schema
type fakeCatalog struct {
	tables map[string][]string
	err    error
}

func (f *fakeCatalog) TableExists(_ context.Context, table string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.tables[table]
	return ok, nil
}

func (f *fakeCatalog) FieldExists(_ context.Context, field, table string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, col := range f.tables[table] {
		if col == field {
			return true, nil
		}
	}
	return false, nil
}

// recordingBuilder 记录收到的每一次调用，便于断言子句顺序
type recordingBuilder struct {
	calls    []string
	result   *port.ResultSet
	counts   []int64
	fetchErr error
	countErr error
}

func (r *recordingBuilder) record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordingBuilder) Reset() { r.record("reset") }
func (r *recordingBuilder) Select(columns ...string) {
	r.record("select %s", strings.Join(columns, ","))
}
func (r *recordingBuilder) Where(key string, value any) { r.record("where %s=%v", key, value) }
func (r *recordingBuilder) WhereRaw(predicate string)   { r.record("whereRaw %s", predicate) }
func (r *recordingBuilder) OrLikeGroup(terms []port.LikeTerm) {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.Field + "~" + t.Match
	}
	r.record("like [%s]", strings.Join(parts, " | "))
}
func (r *recordingBuilder) Join(table, condition, joinType string) {
	r.record("join %s %s ON %s", joinType, table, condition)
}
func (r *recordingBuilder) GroupBy(column string) { r.record("group %s", column) }
func (r *recordingBuilder) OrderBy(column, direction string) {
	r.record("order %s %s", column, direction)
}

func (r *recordingBuilder) Fetch(_ context.Context, table string, limit, offset int) (*port.ResultSet, error) {
	r.record("fetch %s %d %d", table, limit, offset)
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	if r.result == nil {
		return &port.ResultSet{}, nil
	}
	return r.result, nil
}

func (r *recordingBuilder) Count(_ context.Context, table string) (int64, error) {
	r.record("count %s", table)
	if r.countErr != nil {
		return 0, r.countErr
	}
	if len(r.counts) == 0 {
		return 0, nil
	}
	n := r.counts[0]
	r.counts = r.counts[1:]
	return n, nil
}

// sinkRecorder 是一个最小的 port.ResponseSink 实现
type sinkRecorder struct {
	code   int
	body   any
	writes int
}

func (s *sinkRecorder) JSON(code int, obj any) {
	s.code = code
	s.body = obj
	s.writes++
}
