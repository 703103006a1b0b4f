package rdb

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookstore-bos/internal/infrastructure/config"
)

// txKey 事务DB在context中的key
type txKey struct{}

// TxManager 事务管理器
// 教学要点:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 嵌套调用时复用外层事务
// 4. 每个事务带超时,等锁超时以可重试的冲突错误返回
type TxManager struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB, cfg *config.Config) *TxManager {
	return NewTxManagerWithTimeout(db, cfg.Database.TxTimeout)
}

// NewTxManagerWithTimeout timeout<=0表示不限时
func NewTxManagerWithTimeout(db *gorm.DB, timeout time.Duration) *TxManager {
	return &TxManager{db: db, timeout: timeout}
}

// Transaction 执行事务
// 1. fn内的所有Repository操作都会在同一事务中执行
// 2. fn返回error时自动ROLLBACK,返回nil时自动COMMIT
// 3. 锁等待超时、死锁、序列化失败、唯一索引冲突统一转换为ErrConflict
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    books, err := bookRepo.LockByIDs(ctx, ids)
//	    ...
//	    return orderRepo.Create(ctx, o) // nil则提交,非nil则回滚
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	return translateTxError(err)
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 事务内的每一次读写都必须经过这里,否则会绕开事务(SQLite单连接下还会死锁)
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// forUpdate SELECT ... FOR UPDATE
// SQLite不支持行锁,靠单连接串行化
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
