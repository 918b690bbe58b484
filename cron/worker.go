package cron

import (
	"context"
	"encoding/json"
	"time"

	"transylvania/config"
	"transylvania/services/reservation"
	"transylvania/services/tasks"
	"transylvania/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func queueRedisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisArchiveQDB,
	}
}

// InitArchiveWorker starts the background worker that sweeps expired bookings
// into the history ledger, plus a daily enqueuer and a Redis health monitor.
func InitArchiveWorker(engine reservation.Engine) {
	srv := asynq.NewServer(
		queueRedisOpts(),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeArchiveDue, handleArchiveTask(engine))

	go monitorQueueRedis()
	go scheduleDailySweeps()

	go func() {
		logger := utils.GetLogger()
		logger.Info("starting archive worker")
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("archive worker failed to start",
					zap.Int("attempt", attempt), zap.Error(err))
				if attempt == maxAttempts {
					logger.Fatal("archive worker gave up after max attempts")
				}
				time.Sleep(time.Duration(attempt*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleArchiveTask(engine reservation.Engine) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ArchivePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			utils.GetLogger().Error("invalid archive payload", zap.Error(err))
			return err
		}
		cutoff, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			utils.GetLogger().Error("invalid archive cutoff date",
				zap.String("date", p.Date), zap.Error(err))
			return err
		}
		archived, err := engine.ArchiveDue(ctx, cutoff)
		if err != nil {
			utils.GetLogger().Error("archive sweep failed",
				zap.String("date", p.Date), zap.Error(err))
			return err
		}
		utils.GetLogger().Info("archive sweep complete",
			zap.String("date", p.Date), zap.Int("archived", archived))
		return nil
	}
}

// scheduleDailySweeps enqueues one sweep immediately and then one per day.
func scheduleDailySweeps() {
	client := asynq.NewClient(queueRedisOpts())
	defer client.Close()

	enqueue := func() {
		today := time.Now().Format("2006-01-02")
		task, opts, err := tasks.NewArchiveDueTask(today, time.Now())
		if err != nil {
			utils.GetLogger().Error("failed to build archive task", zap.Error(err))
			return
		}
		if _, err := client.Enqueue(task, opts...); err != nil {
			utils.GetLogger().Error("failed to enqueue archive task", zap.Error(err))
		}
	}

	enqueue()
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		enqueue()
	}
}

// monitorQueueRedis pings the queue Redis periodically to detect failures at runtime.
func monitorQueueRedis() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisArchiveQDB,
	})
	ctx := context.Background()
	for {
		if err := client.Ping(ctx).Err(); err != nil {
			utils.GetLogger().Warn("archive queue redis unreachable", zap.Error(err))
		}
		time.Sleep(30 * time.Second)
	}
}
