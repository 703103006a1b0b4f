package main

import (
	"github.com/xiebiao/bookstore-bos/internal/domain/order"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-bos/pkg/jwt"
)

// provideJWTManager jwt.NewManager只需要JWT相关的配置
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideStatusPolicy 状态流转表来自order.transitions
func provideStatusPolicy(cfg *config.Config) (*order.StatusPolicy, error) {
	return cfg.Order.StatusPolicy()
}
