package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gtd-review/internal/config"
	"gtd-review/internal/notify"
	"gtd-review/internal/repository"
	"gtd-review/internal/review"
	"gtd-review/internal/service"
	"gtd-review/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	metricsRepo := repository.NewMetricsRepository(db)

	loader := review.NewLoader(taskRepo, projectRepo, reviewRepo)
	manager := review.NewManager(sessionRepo, reviewRepo, metricsRepo, loader)
	selector := review.NewSelector()
	reminderSvc := service.NewReminderService(loader, reviewRepo)

	scheduler := service.NewScheduler(time.Local)
	if _, err := scheduler.Every(cfg.RefreshInterval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := loader.LoadDaily(jobCtx, time.Now()); err != nil {
			log.Printf("refresh daily snapshot: %v", err)
		}
		if _, err := loader.LoadWeekly(jobCtx, time.Now()); err != nil {
			log.Printf("refresh weekly snapshot: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule refresh: %v", err)
	}

	if cfg.RemindersEnabled() {
		notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("notifier: %v", err)
		}

		if _, err := scheduler.DailyAt(cfg.ReminderTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			text, err := reminderSvc.DailyNudge(jobCtx, time.Now())
			if err != nil {
				log.Printf("reminder: %v", err)
				return
			}
			if err := notifier.Send(text); err != nil {
				log.Printf("reminder: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule reminder: %v", err)
		}
	}

	scheduler.Start()
	defer scheduler.Stop()

	server := web.NewServer(manager, loader, selector, reviewRepo, metricsRepo)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run(cfg.HTTPAddr)
	}()

	log.Printf("GTD review service listening on %s", cfg.HTTPAddr)
	select {
	case err := <-errCh:
		log.Fatalf("server stopped with error: %v", err)
	case <-ctx.Done():
	}
	log.Println("Shutdown complete.")
}
