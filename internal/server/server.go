package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"wbparser/internal/config"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// echoを組み立てる（CORS・recover・アクセスログ・ルート）
func New(cfg config.Config, logger *log.Logger, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger = logger

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Errorf("%s %s status=%d latency=%s err=%v", v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			logger.Infof("%s %s status=%d latency=%s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	RegisterRoutes(e, cfg, h)
	return e
}

// ctxが終わるまでサーバーを動かし、終わったらgracefulに止める。
func Start(ctx context.Context, e *echo.Echo, addr string) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	//起動失敗でもシグナルでもここに来る
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
