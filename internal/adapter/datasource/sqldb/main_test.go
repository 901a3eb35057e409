// file: internal/adapter/datasource/sqldb/main_test.go
package sqldb

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// ============================================================================
//  共享测试辅助工具 (Shared Test Helpers)
// ============================================================================

// createTestDB 创建一个带有指定 schema 与数据的临时数据库文件。
func createTestDB(t *testing.T, stmts ...string) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grid.db")

	dsn := "file:" + path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)

	for _, stmt := range stmts {
		_, err = db.Exec(stmt)
		require.NoError(t, err, "Failed to execute statement: %s", stmt)
	}

	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// studentsSchema 是多个测试共用的样例数据
var studentsSchema = []string{
	`CREATE TABLE students (id INTEGER PRIMARY KEY, name TEXT, class_id INTEGER, score INTEGER);`,
	`CREATE TABLE classes (id INTEGER PRIMARY KEY, title TEXT);`,
	`INSERT INTO classes (id, title) VALUES (1, 'Math'), (2, 'Art');`,
	`INSERT INTO students (id, name, class_id, score) VALUES
		(1, 'Alice', 1, 90),
		(2, 'Bob', 1, 75),
		(3, 'Carol', 2, 82),
		(4, 'Dave_100%', 2, 60);`,
}
