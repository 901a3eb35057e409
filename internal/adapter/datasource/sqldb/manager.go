// Package sqldb 管理多数据源 (SQLite / MySQL / PostgreSQL) 连接, 并提供 schema 目录与查询构建器。
// internal/adapter/datasource/sqldb/manager.go
package sqldb

import (
	"GridAegis/internal/core/domain"
	"GridAegis/internal/core/port"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// 断言 *Manager 实现 port.DataSourceProvider 接口，编译期校验
var _ port.DataSourceProvider = (*Manager)(nil)

type source struct {
	db      *sql.DB
	dialect Dialect
}

// Manager 按名称管理已打开的数据库连接
type Manager struct {
	mu      sync.RWMutex
	sources map[string]*source
}

// NewManager 创建一个空的 Manager
func NewManager() *Manager {
	return &Manager{sources: make(map[string]*source)}
}

// OpenAll 依次打开配置中的所有数据源，任一失败即关闭已打开的连接并返回错误
func (m *Manager) OpenAll(ctx context.Context, configs map[string]domain.DataSourceConfig) error {
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := m.Open(ctx, name, configs[name]); err != nil {
			_ = m.Close()
			return err
		}
	}
	return nil
}

// Open 打开单个数据源并登记到 Manager；同名数据源会被替换
func (m *Manager) Open(ctx context.Context, name string, cfg domain.DataSourceConfig) error {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return fmt.Errorf("数据源 '%s': %w", name, err)
	}
	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("打开数据源 '%s' 失败: %w", name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping 数据源 '%s' 失败: %w", name, err)
	}
	m.Add(name, db, dialect)
	slog.Info("数据源已连接", "datasource", name, "driver", cfg.Driver)
	return nil
}

// Add 登记一个已打开的连接，主要供测试与嵌入场景使用
func (m *Manager) Add(name string, db *sql.DB, dialect Dialect) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.sources[name]; ok && old.db != db {
		_ = old.db.Close()
	}
	m.sources[name] = &source{db: db, dialect: dialect}
}

// openDB 按驱动构造 *sql.DB；MySQL / PostgreSQL 的 DSN 先经驱动自身解析以尽早暴露配置错误
func openDB(cfg domain.DataSourceConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case "mysql":
		mc, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("解析 MySQL DSN 失败: %w", err)
		}
		connector, err := mysql.NewConnector(mc)
		if err != nil {
			return nil, err
		}
		return sql.OpenDB(connector), nil
	case "postgres":
		pc, err := pgx.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("解析 PostgreSQL DSN 失败: %w", err)
		}
		return stdlib.OpenDB(*pc), nil
	default:
		return sql.Open("sqlite", cfg.DSN)
	}
}

func (m *Manager) get(name string) (*source, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src, ok := m.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", port.ErrDataSourceNotFound, name)
	}
	return src, nil
}

// Catalog 实现 port.DataSourceProvider
func (m *Manager) Catalog(name string) (port.SchemaCatalog, error) {
	src, err := m.get(name)
	if err != nil {
		return nil, err
	}
	return NewCatalog(src.db, src.dialect), nil
}

// NewQueryBuilder 实现 port.DataSourceProvider；每次请求获得一个独立的构造器
func (m *Manager) NewQueryBuilder(name string) (port.QueryBuilder, error) {
	src, err := m.get(name)
	if err != nil {
		return nil, err
	}
	return NewBuilder(src.db, src.dialect), nil
}

// Names 返回已登记的数据源名称 (字母序)
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.sources))
	for name := range m.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HealthCheck 依次 ping 所有数据源，汇总全部失败
func (m *Manager) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.sources) == 0 {
		return errors.New("当前没有加载任何数据源")
	}
	var errs []error
	for name, src := range m.sources {
		if err := src.db.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("数据源 '%s': %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Close 关闭所有连接并清空状态
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var errs []error
	for name, src := range m.sources {
		if err := src.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("关闭数据源 '%s' 失败: %w", name, err))
		}
	}
	m.sources = make(map[string]*source)
	return errors.Join(errs...)
}
