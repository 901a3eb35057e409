// Package sqldb file: internal/adapter/datasource/sqldb/catalog.go
package sqldb

import (
	"GridAegis/internal/core/port"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

var _ port.SchemaCatalog = (*Catalog)(nil)

// Catalog 直接查询数据库系统表回答表/字段是否存在，不做缓存，结果总是反映实时 schema。
type Catalog struct {
	db      *sql.DB
	dialect Dialect
}

// NewCatalog 创建一个绑定到指定连接与方言的 Catalog
func NewCatalog(db *sql.DB, dialect Dialect) *Catalog {
	return &Catalog{db: db, dialect: dialect}
}

// TableExists 实现 port.SchemaCatalog
func (c *Catalog) TableExists(ctx context.Context, table string) (bool, error) {
	if table == "" {
		return false, nil
	}
	var query string
	switch c.dialect.Name {
	case DialectMySQL.Name:
		query = `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`
	case DialectPostgres.Name:
		query = `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1`
	default:
		query = `SELECT COUNT(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?`
	}

	var n int
	if err := c.db.QueryRowContext(ctx, query, table).Scan(&n); err != nil {
		return false, fmt.Errorf("查询表 '%s' 元数据失败: %w", table, err)
	}
	return n > 0, nil
}

// FieldExists 实现 port.SchemaCatalog
func (c *Catalog) FieldExists(ctx context.Context, field, table string) (bool, error) {
	if field == "" || table == "" {
		return false, nil
	}
	switch c.dialect.Name {
	case DialectMySQL.Name, DialectPostgres.Name:
		query := `SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?`
		if c.dialect.Name == DialectPostgres.Name {
			query = `SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2`
		}
		var n int
		if err := c.db.QueryRowContext(ctx, query, table, field).Scan(&n); err != nil {
			return false, fmt.Errorf("查询表 '%s' 列元数据失败: %w", table, err)
		}
		return n > 0, nil
	default:
		cols, err := listColumns(ctx, c.db, table)
		if err != nil {
			return false, err
		}
		for _, col := range cols {
			if col == field {
				return true, nil
			}
		}
		return false, nil
	}
}

// listColumns 返回 SQLite 表的所有物理列名；表不存在时返回空列表
func listColumns(ctx context.Context, db *sql.DB, tableName string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, tableName))
	if err != nil {
		return nil, fmt.Errorf("PRAGMA table_info for table %q 失败: %w", tableName, err)
	}
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var (
			cid       int
			colName   string
			colType   string
			notnull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notnull, &dfltValue, &pk); err != nil {
			slog.Warn("扫描列信息失败", "table", tableName, "error", err)
			continue
		}
		cols = append(cols, colName)
	}
	return cols, rows.Err()
}
