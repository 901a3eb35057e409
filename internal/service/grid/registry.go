// Package grid 负责从配置装载表格 (grid) 定义，并在配置文件变更时热更新。
package grid

import (
	"GridAegis/internal/core/domain"
	"GridAegis/internal/core/port"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Grid 是一个已解码、已通过结构校验的表格定义
type Grid struct {
	Name           string
	DataSource     string
	Table          domain.TableConfig
	RowID          string
	RowClass       any
	RateLimitRPS   float64
	RateLimitBurst int
}

// Registry 持有当前生效的全部 grid。Replace 以整体替换的方式更新，
// 读者总是看到某一次完整装载的结果。
type Registry struct {
	mu       sync.RWMutex
	grids    map[string]*Grid
	sources  map[string]struct{}
	validate *validator.Validate
}

// NewRegistry 创建一个空的 Registry；sources 为可引用的数据源名称
func NewRegistry(sources []string) *Registry {
	known := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		known[s] = struct{}{}
	}
	return &Registry{
		grids:    make(map[string]*Grid),
		sources:  known,
		validate: validator.New(),
	}
}

// Build 把单个配置定义解码并校验为 Grid
func (r *Registry) Build(name string, def domain.GridDefinition) (*Grid, error) {
	if err := r.validate.Struct(def); err != nil {
		return nil, fmt.Errorf("grid '%s' 定义非法: %w", name, err)
	}
	if _, ok := r.sources[def.DataSource]; !ok {
		return nil, fmt.Errorf("grid '%s' 引用了未配置的数据源 '%s'", name, def.DataSource)
	}

	where, err := decodeWhere(def.Where)
	if err != nil {
		return nil, fmt.Errorf("grid '%s': %w", name, err)
	}
	joins, err := decodeJoins(def.Joins)
	if err != nil {
		return nil, fmt.Errorf("grid '%s': %w", name, err)
	}

	table := domain.TableConfig{
		Table:      def.Table,
		PrimaryKey: def.PrimaryKey,
		Columns:    append([]string(nil), def.Columns...),
		Where:      where,
		Joins:      joins,
		GroupBy:    append([]string(nil), def.GroupBy...),
	}
	if err := r.validate.Struct(table); err != nil {
		return nil, fmt.Errorf("grid '%s' 表配置非法: %w", name, err)
	}

	return &Grid{
		Name:           name,
		DataSource:     def.DataSource,
		Table:          table,
		RowID:          def.RowID,
		RowClass:       def.RowClass,
		RateLimitRPS:   def.RateLimitRPS,
		RateLimitBurst: def.RateLimitBurst,
	}, nil
}

// Replace 解码全部定义，全部成功后才整体替换当前集合；任一失败则保持原集合不变
func (r *Registry) Replace(defs map[string]domain.GridDefinition) error {
	next := make(map[string]*Grid, len(defs))
	var errs []error
	for name, def := range defs {
		g, err := r.Build(name, def)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		next[name] = g
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	r.mu.Lock()
	r.grids = next
	r.mu.Unlock()
	slog.Info("grid 定义已装载", "count", len(next))
	return nil
}

// Get 返回指定名称的 grid
func (r *Registry) Get(name string) (*Grid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.grids[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", port.ErrGridNotFound, name)
	}
	return g, nil
}

// Names 返回全部 grid 名称 (字母序)
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.grids))
	for name := range r.grids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All 返回当前全部 grid 的快照 (按名称排序)
func (r *Registry) All() []*Grid {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*Grid, 0, len(r.grids))
	for _, g := range r.grids {
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}
