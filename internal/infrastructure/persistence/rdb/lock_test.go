package rdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// dryRunDB 只生成SQL,不连接数据库
func dryRunDB(t *testing.T, dialector gorm.Dialector) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(dialector, &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func lockSQL(db *gorm.DB) string {
	var models []BookModel
	stmt := forUpdate(db).Where("id IN ?", []uint{1, 2}).Order("id ASC").Find(&models).Statement
	return stmt.SQL.String()
}

func TestForUpdate(t *testing.T) {
	t.Run("MySQL加行锁", func(t *testing.T) {
		db := dryRunDB(t, gormmysql.New(gormmysql.Config{
			DSN:                       "root:root@tcp(127.0.0.1:3306)/bookstore?parseTime=true",
			SkipInitializeWithVersion: true,
		}))
		sql := lockSQL(db)
		assert.Contains(t, sql, "FOR UPDATE")
		assert.Contains(t, sql, "ORDER BY id ASC")
	})

	t.Run("PostgreSQL加行锁", func(t *testing.T) {
		db := dryRunDB(t, postgres.New(postgres.Config{
			DSN: "host=127.0.0.1 user=postgres dbname=bookstore sslmode=disable",
		}))
		assert.Contains(t, lockSQL(db), "FOR UPDATE")
	})

	t.Run("SQLite不支持,不加锁", func(t *testing.T) {
		db := dryRunDB(t, sqlite.Open("file::memory:"))
		assert.NotContains(t, lockSQL(db), "FOR UPDATE")
	})
}
