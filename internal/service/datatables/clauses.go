// Package datatables file: internal/service/datatables/clauses.go
package datatables

import (
	"GridAegis/internal/core/domain"
	"GridAegis/internal/core/port"
	"strings"
)

// applyWhere 原始字符串整体透传；条件列表中无键的条目为原始谓词，其余为等值条件，全部 AND 组合
func applyWhere(qb port.QueryBuilder, where domain.WhereSpec) {
	if where.IsZero() {
		return
	}
	if where.Raw != "" {
		qb.WhereRaw(where.Raw)
	}
	for _, cond := range where.Conditions {
		if cond.Key == "" {
			if predicate, ok := cond.Value.(string); ok && predicate != "" {
				qb.WhereRaw(predicate)
			}
			continue
		}
		qb.Where(cond.Key, cond.Value)
	}
}

func applyJoins(qb port.QueryBuilder, joins []domain.JoinSpec) {
	for _, j := range joins {
		joinType := j.Type
		if joinType == "" {
			joinType = "inner"
		}
		qb.Join(j.Table, j.Condition, joinType)
	}
}

func applyGroup(qb port.QueryBuilder, groupBy []string) {
	for _, col := range groupBy {
		qb.GroupBy(col)
	}
}

// applyOrder 按请求中的排序指令追加 ORDER BY；目标列越界、未命名或不可排序时跳过
func applyOrder(qb port.QueryBuilder, req domain.WireRequest) {
	for _, o := range req.Order {
		if o.Column < 0 || o.Column >= len(req.Columns) {
			continue
		}
		col := req.Columns[o.Column]
		if !col.Orderable || col.Name == "" {
			continue
		}
		qb.OrderBy(columnName(col.Name), strings.ToUpper(o.Dir))
	}
}

// searchTerms 收集全局搜索与逐列搜索产生的 LIKE 条件。
// 只有可搜索且已命名的列参与；全局搜索项排在该列自身搜索项之前。
func searchTerms(req domain.WireRequest) []port.LikeTerm {
	var terms []port.LikeTerm
	for _, col := range req.Columns {
		if col.Name == "" || !col.Searchable {
			continue
		}
		field := qualifiedName(col.Name)
		if req.Search != "" {
			terms = append(terms, port.LikeTerm{Field: field, Match: req.Search})
		}
		if col.Search != "" {
			terms = append(terms, port.LikeTerm{Field: field, Match: col.Search})
		}
	}
	return terms
}

// applySearch 没有任何搜索项时不添加子句
func applySearch(qb port.QueryBuilder, req domain.WireRequest) {
	terms := searchTerms(req)
	if len(terms) == 0 {
		return
	}
	qb.OrLikeGroup(terms)
}
