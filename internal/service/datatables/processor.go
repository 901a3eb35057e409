// Package datatables file: internal/service/datatables/processor.go
package datatables

import (
	"GridAegis/internal/core/domain"
	"GridAegis/internal/core/port"
	"context"
	"fmt"
	"time"
)

// QueryObserver 在每条查询完成后被调用，kind 为 filtered / total / data
type QueryObserver func(kind string, elapsed time.Duration, err error)

// Processor 持有一次表格请求的全部状态：已校验的配置、已注解的请求以及查询构造器。
type Processor struct {
	cfg      domain.TableConfig
	req      domain.WireRequest
	qb       port.QueryBuilder
	observer QueryObserver
}

// Option 用于定制 Processor
type Option func(*Processor)

// WithQueryObserver 注册查询耗时回调
func WithQueryObserver(fn QueryObserver) Option {
	return func(p *Processor) { p.observer = fn }
}

// New 依次执行配置校验与请求校验，成功后返回可调用 Process 的 Processor。
func New(ctx context.Context, cfg domain.TableConfig, catalog port.SchemaCatalog, qb port.QueryBuilder, req domain.WireRequest, opts ...Option) (*Processor, error) {
	if err := ValidateConfig(ctx, catalog, cfg); err != nil {
		return nil, err
	}
	annotated, err := AnnotateRequest(cfg, req)
	if err != nil {
		return nil, err
	}
	p := &Processor{cfg: cfg, req: annotated, qb: qb}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Process 依次执行 filtered 计数、total 计数与分页数据查询，并组装响应信封。
// rowClass 必须是字符串 (nil 视为空串)。
func (p *Processor) Process(ctx context.Context, rowID string, rowClass any) (*domain.Response, error) {
	mode := domain.RowIDMode(rowID)
	switch mode {
	case domain.RowIDModeID, domain.RowIDModeData, domain.RowIDModeNone:
	default:
		return nil, port.ErrInvalidRowID
	}

	class := ""
	if rowClass != nil {
		s, ok := rowClass.(string)
		if !ok {
			return nil, port.ErrInvalidRowClass
		}
		class = s
	}

	filtered, err := p.recordsFiltered(ctx)
	if err != nil {
		return nil, err
	}
	total, err := p.recordsTotal(ctx)
	if err != nil {
		return nil, err
	}
	rs, err := p.fetchPage(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.Response{
		Draw:            p.req.Draw,
		RecordsTotal:    total,
		RecordsFiltered: filtered,
		Data:            p.shapeRows(rs, mode, class),
	}, nil
}

// selectColumns 返回 SELECT 列表。
// 主键不在配置列中时也不会自动追加 (与既有行为一致)，此时 DT_RowId / DT_RowData 中的 id 为 null。
func (p *Processor) selectColumns() []string {
	columns := make([]string, len(p.cfg.Columns))
	copy(columns, p.cfg.Columns)
	return columns
}

func (p *Processor) recordsFiltered(ctx context.Context) (int64, error) {
	p.qb.Reset()
	applyWhere(p.qb, p.cfg.Where)
	applyJoins(p.qb, p.cfg.Joins)
	applySearch(p.qb, p.req)
	applyGroup(p.qb, p.cfg.GroupBy)

	start := time.Now()
	n, err := p.qb.Count(ctx, p.cfg.Table)
	p.observe("filtered", start, err)
	if err != nil {
		return 0, fmt.Errorf("统计过滤后记录数失败: %w", err)
	}
	return n, nil
}

// recordsTotal 不应用搜索条件
func (p *Processor) recordsTotal(ctx context.Context) (int64, error) {
	p.qb.Reset()
	applyWhere(p.qb, p.cfg.Where)
	applyJoins(p.qb, p.cfg.Joins)
	applyGroup(p.qb, p.cfg.GroupBy)

	start := time.Now()
	n, err := p.qb.Count(ctx, p.cfg.Table)
	p.observe("total", start, err)
	if err != nil {
		return 0, fmt.Errorf("统计总记录数失败: %w", err)
	}
	return n, nil
}

func (p *Processor) fetchPage(ctx context.Context) (*port.ResultSet, error) {
	p.qb.Reset()
	p.qb.Select(p.selectColumns()...)
	applyWhere(p.qb, p.cfg.Where)
	applyJoins(p.qb, p.cfg.Joins)
	applySearch(p.qb, p.req)
	applyGroup(p.qb, p.cfg.GroupBy)
	applyOrder(p.qb, p.req)

	limit, offset := p.req.Length, p.req.Start
	if limit <= 0 {
		limit, offset = 0, 0
	}
	if offset < 0 {
		offset = 0
	}

	start := time.Now()
	rs, err := p.qb.Fetch(ctx, p.cfg.Table, limit, offset)
	p.observe("data", start, err)
	if err != nil {
		return nil, fmt.Errorf("查询分页数据失败: %w", err)
	}
	return rs, nil
}

// shapeRows 将结果行转为按列顺序的单元格序列，并按 rowID 模式与行 class 附加注解
func (p *Processor) shapeRows(rs *port.ResultSet, mode domain.RowIDMode, class string) []domain.Row {
	rows := make([]domain.Row, 0, len(rs.Rows))
	pk := columnName(p.cfg.PrimaryKey)
	for _, values := range rs.Rows {
		cells := make([]any, len(values))
		copy(cells, values)
		row := domain.Row{Cells: cells, RowClass: class}

		switch mode {
		case domain.RowIDModeID:
			row.RowID = rs.Value(values, pk)
			row.HasRowID = true
		case domain.RowIDModeData:
			row.RowData = map[string]any{"id": rs.Value(values, pk)}
		}
		rows = append(rows, row)
	}
	return rows
}

func (p *Processor) observe(kind string, start time.Time, err error) {
	if p.observer != nil {
		p.observer(kind, time.Since(start), err)
	}
}
