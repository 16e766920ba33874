package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/moshegoodman/zoozz2-sub000/internal/config"
	"github.com/moshegoodman/zoozz2-sub000/internal/repository"
	"github.com/moshegoodman/zoozz2-sub000/internal/seed"
	"github.com/moshegoodman/zoozz2-sub000/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var rosterPath string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机供应商, 3: 插入随机家庭, 4: 插入随机员工, 5: 插入演示数据, 6: 导入员工花名册)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&rosterPath, "roster", "./internal/seed/data/roster.csv", "员工花名册 CSV 路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

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

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机用户", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入用户", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入用户成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的供应商数量")
		} else {
			loc, err := time.LoadLocation(cfg.Schedule.Timezone)
			if err != nil {
				slog.Error("无法加载参考时区", slog.String("error", err.Error()))
				return
			}

			cnt := n
			for i := 0; i < n; i++ {
				vendor := utils.GenerateRandomVendor()
				if err := repo.CreateVendor(vendor); err != nil {
					slog.Error("无法插入供应商", slog.String("error", err.Error()))
					continue
				}

				m := utils.GenerateRandomScheduleMap(time.Now().In(loc), loc)
				if err := repo.ReplaceVendorSchedule(context.Background(), vendor.ID, m); err != nil {
					slog.Error("无法写入供应商时间表", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入供应商成功", slog.Int("count", n-cnt))
		}
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的家庭数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				if err := repo.CreateHousehold(utils.GenerateRandomHousehold()); err != nil {
					slog.Error("无法插入家庭", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入家庭成功", slog.Int("count", n-cnt))
		}
	case 4:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				if err := repo.CreateStaff(utils.GenerateRandomStaff()); err != nil {
					slog.Error("无法插入员工", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入员工成功", slog.Int("count", n-cnt))
		}
	case 5:
		seed.SeedDemoData(cfg, repo)
	case 6:
		seed.SeedStaffRoster(repo, rosterPath)
	default:
		slog.Error("指定的操作非法")
	}
}
