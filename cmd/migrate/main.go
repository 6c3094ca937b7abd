package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/infra/db"
	"clinic-scheduler/internal/infra/query"
	"clinic-scheduler/internal/infra/repository"
	"clinic-scheduler/internal/pkg/config"
	"clinic-scheduler/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of migrating up")
	seedCatalog := flag.Bool("seed-catalog", false, "rewrite time_slots from SCHEDULE_DAY_OPEN/SCHEDULE_DAY_CLOSE/SCHEDULE_BLOCK_MINUTES")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg, err := config.LoadMigrateConfig()
	if err != nil {
		slog.Error("設定の読み込みに失敗しました", "error", err)
		os.Exit(1)
	}

	if *down > 0 {
		if err := db.RollbackMigrations(cfg.DB, *down); err != nil {
			slog.Error("マイグレーションのロールバックに失敗しました", "error", err, "steps", *down)
			os.Exit(1)
		}
		return
	}

	if err := db.RunMigrations(cfg.DB); err != nil {
		slog.Error("マイグレーションに失敗しました", "error", err)
		os.Exit(1)
	}

	if *seedCatalog {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := reseedCatalog(ctx, cfg); err != nil {
			slog.Error("時間枠の再生成に失敗しました", "error", err)
			os.Exit(1)
		}
	}
}

// reseedCatalog replaces the stored slot catalog in one transaction
func reseedCatalog(ctx context.Context, cfg config.MigrateConfig) error {
	open, err := schedule.ParseTimeOfDay(cfg.Schedule.DayOpen)
	if err != nil {
		return errs.Wrap(err, "SCHEDULE_DAY_OPEN")
	}
	closing, err := schedule.ParseTimeOfDay(cfg.Schedule.DayClose)
	if err != nil {
		return errs.Wrap(err, "SCHEDULE_DAY_CLOSE")
	}
	catalog, err := schedule.GenerateCatalog(open, closing, cfg.Schedule.BlockMinutes)
	if err != nil {
		return err
	}

	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return err
	}
	defer cleanup()

	repo := repository.NewCatalogRepository(query.New())
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		return repo.Replace(ctx, tx, catalog)
	})
	if err != nil {
		return err
	}

	slog.Info("時間枠を再生成しました", "slots", catalog.Len(), "open", open.String(), "close", closing.String())
	return nil
}
