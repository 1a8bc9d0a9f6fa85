package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/database"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/handler"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/lock"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/repository"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/service"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	/**********************************************
	 * 数据库迁移
	 **********************************************/
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, dbpool); err != nil {
			logger.Error("数据库迁移失败", "error", err)
			return
		}
		logger.Info("数据库迁移完成")
	}

	/**********************************************
	 * 创建 repository
	 **********************************************/
	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * 创建锁
	 **********************************************/
	var locker service.Locker
	switch cfg.Lock.Driver {
	case "local":
		locker = lock.NewLocalLocker()
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
		defer pingCancel()

		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Error("无法连接到 redis", "error", err)
			return
		}

		locker = lock.NewRedisLocker(rdb, lock.RedisLockerOptions{
			Expiration:    time.Duration(cfg.Lock.Expiration) * time.Millisecond,
			RetryInterval: time.Duration(cfg.Lock.RetryInterval) * time.Millisecond,
			WaitTimeout:   time.Duration(cfg.Lock.WaitTimeout) * time.Millisecond,
		})
	default:
		logger.Error("未知的锁类型", "driver", cfg.Lock.Driver)
		return
	}

	/**********************************************
	 * 创建 service
	 **********************************************/
	workdays := service.NewWorkdayService(repo, repo, logger)
	shifts := service.NewShiftScheduler(repo, repo, repo, repo, locker, logger)
	users := service.NewUserAssignment(repo, repo, logger)

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, shifts, users, workdays)
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}
	logger.Info("服务器已成功关闭")
}
