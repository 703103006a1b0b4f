//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookstore-bos/internal/application/book"
	apporder "github.com/xiebiao/bookstore-bos/internal/application/order"
	appuser "github.com/xiebiao/bookstore-bos/internal/application/user"
	"github.com/xiebiao/bookstore-bos/internal/domain/book"
	"github.com/xiebiao/bookstore-bos/internal/domain/user"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/messaging"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookstore-bos/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-bos/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-bos/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis、消息
var infrastructureSet = wire.NewSet(
	rdb.NewDB,
	redis.NewClient,
	messaging.NewEventPublisher,
	wire.Bind(new(goredis.Cmdable), new(*goredis.Client)),
)

// repositorySet 仓储、事务、缓存
var repositorySet = wire.NewSet(
	rdb.NewUserRepository,
	rdb.NewBookRepository,
	rdb.NewAuthorRepository,
	rdb.NewOrderRepository,
	rdb.NewTxManager,
	wire.Bind(new(apporder.Transactor), new(*rdb.TxManager)),
	wire.Bind(new(appbook.Transactor), new(*rdb.TxManager)),
	redis.NewSessionStore,
	redis.NewOrderCache,
	wire.Bind(new(apporder.Cache), new(*redis.OrderCache)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
	provideStatusPolicy,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appbook.NewPublishBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewPatchBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewAuthorUseCase,
	apporder.NewProjector,
	apporder.NewCreateOrderUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewListOrdersUseCase,
	apporder.NewUpdateOrderStatusUseCase,
	apporder.NewDeleteOrderUseCase,
)

// httpSet 中间件、处理器、路由
var httpSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewAuthorHandler,
	handler.NewOrderHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 组装整个应用
// cleanup按创建的逆序关闭消息连接、Redis、数据库
func InitializeApp(cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		httpSet,
	)
	return nil, nil, nil
}
