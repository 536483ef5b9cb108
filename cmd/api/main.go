package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"wbparser/internal/config"
	"wbparser/internal/handler"
	"wbparser/internal/infra/db"
	infraRepo "wbparser/internal/infra/repository"
	"wbparser/internal/infra/wildberries"
	"wbparser/internal/logging"
	"wbparser/internal/server"
	"wbparser/internal/usecase"
	"wbparser/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くても環境変数で動かす
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New("wbparser", cfg.LogLevel)
	if envErr != nil {
		logger.Infof("no .env file, using process environment")
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatalf("db migrate: %v", err)
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB, logger)

	//WB検索APIクライアント
	wb, err := wildberries.NewClient(wildberries.ClientOptions{
		SearchURL: cfg.SearchURL,
		Timeout:   cfg.FetchTimeout,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatalf("wildberries client: %v", err)
	}

	//Usecase生成
	v := validator.NewProductValidator()
	normalizer := usecase.NewNormalizer(cfg.CatalogBaseURL, logger)
	productUC := usecase.NewProductUsecase(productRepo, v, logger)
	parserUC := usecase.NewParserUsecase(wb, normalizer, productUC, v, logger)

	//Handler生成
	e := server.New(cfg, logger, server.Handlers{
		Products: handler.NewProductHandler(productUC, parserUC, cfg.DefaultLimit),
		Parser:   handler.NewParserHandler(parserUC, cfg.DefaultLimit),
		Health:   handler.NewHealthHandler(productRepo),
	})

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("listening on %s", addr)
	if err := server.Start(ctx, e, addr); err != nil {
		logger.Fatalf("server: %v", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Infof("shutdown complete")
}
