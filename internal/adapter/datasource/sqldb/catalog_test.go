// file: internal/adapter/datasource/sqldb/catalog_test.go
package sqldb

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_SQLite(t *testing.T) {
	db := createTestDB(t, append(studentsSchema, `CREATE VIEW top_students AS SELECT id, name FROM students WHERE score > 80;`)...)
	catalog := NewCatalog(db, DialectSQLite)
	ctx := context.Background()

	testCases := []struct {
		name  string
		table string
		want  bool
	}{
		{"existing table", "students", true},
		{"view counts as table", "top_students", true},
		{"missing table", "teachers", false},
		{"empty name", "", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := catalog.TableExists(ctx, tc.table)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}

	t.Run("field lookup", func(t *testing.T) {
		ok, err := catalog.FieldExists(ctx, "name", "students")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = catalog.FieldExists(ctx, "NAME", "students")
		require.NoError(t, err)
		assert.False(t, ok, "字段名匹配应区分大小写")

		ok, err = catalog.FieldExists(ctx, "name", "teachers")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = catalog.FieldExists(ctx, "", "students")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("schema changes are visible immediately", func(t *testing.T) {
		_, err := db.Exec(`ALTER TABLE students ADD COLUMN email TEXT`)
		require.NoError(t, err)
		ok, err := catalog.FieldExists(ctx, "email", "students")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestCatalog_MySQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	catalog := NewCatalog(db, DialectMySQL)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`)).
		WithArgs("orders").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?`)).
		WithArgs("orders", "total").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	ok, err := catalog.TableExists(ctx, "orders")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = catalog.FieldExists(ctx, "total", "orders")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalog_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	catalog := NewCatalog(db, DialectPostgres)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2`)).
		WithArgs("tickets", "title").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1`)).
		WithArgs("tickets").
		WillReturnError(errors.New("connection reset"))

	ok, err := catalog.FieldExists(ctx, "title", "tickets")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = catalog.TableExists(ctx, "tickets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	assert.NoError(t, mock.ExpectationsWereMet())
}
