package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"github.com/user/moovie-watchlist/internal/config"
	"github.com/user/moovie-watchlist/internal/handler"
	"github.com/user/moovie-watchlist/internal/repository"
	"github.com/user/moovie-watchlist/internal/router"
	"github.com/user/moovie-watchlist/internal/utils"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	app := &cli.Command{
		Name:  "moovie",
		Usage: "Movie catalogue and personal watchlist API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
				Sources: cli.EnvVars("CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Create or update the database schema and exit",
				Action: migrate,
			},
		},
		Action: serve,
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if envErr != nil {
				log.Debug("未找到 .env 文件，使用系统环境变量")
			}
			return ctx, nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Error("application error", "err", err)
		os.Exit(1)
	}
}

// bootstrap 加载配置、创建 logger 并连接数据库
func bootstrap(cmd *cli.Command) (*config.Config, *log.Logger, *gorm.DB, error) {
	cfg, err := config.LoadWithFile(cmd.String("config"))
	if err != nil {
		return nil, nil, nil, err
	}

	logger := utils.NewLogger(os.Stderr, cfg.Env, cfg.LogLevel)
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	db, err := repository.InitDB(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	_, logger, db, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer repository.Close(db)

	if err := repository.AutoMigrate(db); err != nil {
		return err
	}
	logger.Info("数据库迁移完成")
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, db, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := repository.Close(db); err != nil {
			logger.Error("关闭数据库失败", "err", err)
		}
	}()

	if cfg.AutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			return err
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	repos := repository.NewRepositories(db)
	h := handler.NewHandler(repos, cfg, logger)
	r := router.New(h, logger)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// kill (no parameter) 默认发送 syscall.SIGTERM，kill -2 是 syscall.SIGINT
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("服务器启动", "addr", "http://localhost:"+cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("正在关闭服务器...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("服务器强制关闭: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("服务器已退出")
	return nil
}
