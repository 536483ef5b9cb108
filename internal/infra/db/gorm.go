package db

import (
	"fmt"
	"time"

	"wbparser/internal/config"
	"wbparser/internal/domain/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxOpenConns    = 20
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// Connect はDBに接続して *gorm.DB を返す。
// コネクションプールはpgxのdatabase/sqlドライバで作る。
func Connect(cfg config.Config) (*gorm.DB, error) {
	pgxCfg, err := pgx.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	sqlDB := stdlib.OpenDB(*pgxCfg)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	level := logger.Warn
	if cfg.IsDev() {
		level = logger.Info
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return gormDB, nil
}

// Migrate はproductsテーブル（product_idのユニーク制約込み）を作る。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Product{})
}
