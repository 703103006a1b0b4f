// Package rdb 关系型数据库持久化实现（GORM）
//
// 同一套仓储代码支持MySQL（默认）、PostgreSQL和SQLite（测试）
package rdb

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookstore-bos/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 按database.driver选择GORM方言
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. SQL日志接入zap：慢SQL记Warn、失败记Error，debug模式另外以Debug级别打印全部SQL
// 4. 返回的cleanup函数关闭连接池（wire负责调用）
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	logLevel := logger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(log, logLevel, 200*time.Millisecond),
		TranslateError: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// SQLite没有行锁，单连接让事务串行执行
	if cfg.Database.Driver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功", zap.String("driver", cfg.Database.Driver))

	// 注意：生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			log.Warn("关闭数据库连接失败", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

func dialectorFor(d config.DatabaseConfig) (gorm.Dialector, error) {
	switch d.Driver {
	case config.DriverMySQL, "":
		return gormmysql.Open(d.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(d.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(d.DSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", d.Driver)
	}
}

// AutoMigrate 自动迁移表结构
// 只会创建表、添加字段，不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&AuthorModel{},
		&BookModel{}, // 同时创建book_authors关联表
		&OrderModel{},
		&OrderItemModel{},
	)
}
