package main

import (
	"context"
	"log"
	"os"

	"looksapi/dbhelper"
	"looksapi/services"
	"looksapi/tasks"

	firebase "firebase.google.com/go/v4"
	"github.com/hibiken/asynq"
)

func runScheduler() {

	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")}, &asynq.SchedulerOpts{

		LogLevel: asynq.InfoLevel,
	})

	// Schedule daily tasks with different cron expressions
	scheduled := []struct {
		cron string
		task *asynq.Task
		desc string
	}{
		{
			cron: "0 10 * * *", // 10:00 AM daily
			task: tasks.NewDailyLookReminderTask(),
			desc: "Daily look pregeneration",
		},
	}

	// Register all tasks
	for _, t := range scheduled {
		entryID, err := scheduler.Register(t.cron, t.task)
		if err != nil {
			log.Fatalf("Failed to register task '%s': %v", t.desc, err)
		}
		log.Printf("Registered task '%s' with ID: %s, cron: %s", t.desc, entryID, t.cron)
	}

	log.Println("Starting scheduler...")
	if err := scheduler.Run(); err != nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}

func main() {
	// Initialize asynq server
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")},
		asynq.Config{Concurrency: 10, Queues: map[string]int{
			"generate": 7,
		}},
	)
	app, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatalf("error initializing firebase app: %v\n", err)
		return
	}
	resultStore, err := services.NewLookResultStore()
	if err != nil {
		log.Fatal("[Queue] Failed to initialize look result store")
	}
	refiner := &services.GoogleCopyRefiner{Model: services.Flash25}

	// Set up task handler
	mux := asynq.NewServeMux()
	db := dbhelper.SetupDB()
	mux.HandleFunc("generate:looks", func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleLookGenerationTask(ctx, t, db, refiner, resultStore, app)
	})
	mux.HandleFunc("generate:daily_reminder", func(ctx context.Context, t *asynq.Task) error {
		return tasks.ScheduledDailyLookTask(ctx, t, db, resultStore, app)
	})

	go runScheduler()
	// Run the worker
	if err := srv.Run(mux); err != nil {
		log.Fatal(err)
	}
}
