package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/database"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/lock"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/repository"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/seed"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/service"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var days int
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机班次, 2: 插入随机用户, 3: 导入排班表)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量，插入班次时表示每天的班次数量")
	flag.IntVar(&days, "days", 7, "插入随机班次时覆盖的天数")
	flag.StringVar(&file, "file", "./roster.csv", "要导入的排班表文件")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
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

	if err := database.Migrate(ctx, dbpool); err != nil {
		logger.Error("数据库迁移失败", "error", err)
		return
	}

	// seed 是单进程运行的，使用进程内的锁即可
	repo := repository.NewRepository(cfg, dbpool)
	shifts := service.NewShiftScheduler(repo, repo, repo, repo, lock.NewLocalLocker(), logger)
	users := service.NewUserAssignment(repo, repo, logger)
	seeder := seed.NewSeeder(shifts, users, logger)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if _, err := seeder.RandomShifts(context.Background(), cfg.Seed.StartDate, days, n); err != nil {
			slog.Error("无法插入随机班次", slog.String("error", err.Error()))
		}
	case 2:
		// 随机分配到第一页的班次中，没有班次时全部为空闲
		existing, err := shifts.List(context.Background(), 0, cfg.Pagination.MaxLimit)
		if err != nil {
			slog.Error("无法获取班次列表", slog.String("error", err.Error()))
			return
		}

		ids := make([]int64, 0, len(existing))
		for _, shift := range existing {
			ids = append(ids, shift.ID)
		}

		if _, err := seeder.RandomUsers(context.Background(), n, ids); err != nil {
			slog.Error("无法插入随机用户", slog.String("error", err.Error()))
		}
	case 3:
		f, err := os.Open(file)
		if err != nil {
			slog.Error("打开文件失败", "error", err)
			return
		}
		defer f.Close()

		if _, err := seeder.ImportRoster(context.Background(), f); err != nil {
			slog.Error("导入排班表失败", slog.String("error", err.Error()))
		}
	default:
		slog.Error("指定的操作非法")
	}
}
