package cron

import (
	"context"
	"log"
	"time"

	"santai/config"
	"santai/services/commission"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypeCommissionSweep = "commission:sweep"

// InitSweepWorker runs the overdue sweep on a server-side schedule. Client
// clocks never participate: every deadline comparison uses the worker's
// time.Now at sweep start.
func InitSweepWorker(sweeper *commission.Sweeper) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCommissionSweep, handleSweepTask(sweeper))

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
	interval := config.AppConfig.SweepInterval
	if _, err := scheduler.Register("@every "+interval.String(), asynq.NewTask(TypeCommissionSweep, nil)); err != nil {
		log.Fatalf("[SweepWorker] ❗ Failed to register sweep schedule: %v", err)
	}

	// Start Redis health monitor
	go monitorRedisConnection()

	go func() {
		log.Printf("[SweepWorker] 🚀 Starting sweep scheduler (every %s)...", interval)
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[SweepWorker] ❗ Scheduler stopped: %v", err)
		}
	}()

	// Start async worker with retry logic
	go func() {
		log.Println("[SweepWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SweepWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SweepWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleSweepTask(sweeper *commission.Sweeper) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		now := time.Now()
		swept, err := sweeper.SweepOverdue(ctx, now)
		if err != nil {
			log.Printf("[SweepHandler] ❌ Sweep failed: %v", err)
			return err
		}
		log.Printf("[SweepHandler] ⏰ Sweep done: %d records marked overdue", len(swept))
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[SweepWorker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
