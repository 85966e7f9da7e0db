package main

import (
	"context"

	"go.uber.org/zap"

	"poke-draft-be/internal/api/http"
	"poke-draft-be/internal/catalog"
	"poke-draft-be/internal/config"
	"poke-draft-be/internal/logger"
	"poke-draft-be/internal/service/draft"
	"poke-draft-be/internal/state"
	"poke-draft-be/internal/store"
	"poke-draft-be/internal/store/migrations"
)

func main() {
	// 加载配置
	cfg := config.InitConfig()

	// 初始化日志器
	logger.InitLogger(cfg.LogLevel)

	// 选择存储：配置了数据库就用 Postgres，否则用内存
	roomStore := initStore(cfg)

	// 目录带降级兜底，外部接口挂掉也不会卡住抽选
	provider := catalog.WithFallback(catalog.NewPokeAPIClient(cfg.PokeAPIBaseURL))

	// 组装应用状态
	appState := state.NewAppState(
		cfg,
		draft.NewService(roomStore, provider, cfg.Draft),
	)

	// 启动服务器
	http.RunServer(appState)
}

func initStore(cfg *config.AppConfig) store.RoomStore {
	if cfg.DatabaseURL == "" {
		zap.S().Info("未配置数据库，使用内存存储")
		return store.NewMemoryStore()
	}

	if err := migrations.Migrate(cfg.DatabaseURL); err != nil {
		panic(err)
	}

	pg, err := store.NewPostgresStore(context.Background(), cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}

	return pg
}
