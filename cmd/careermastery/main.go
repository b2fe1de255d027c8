package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/puentesglobales/careermastery/internal/ats"
	"github.com/puentesglobales/careermastery/internal/coach"
	"github.com/puentesglobales/careermastery/internal/config"
	"github.com/puentesglobales/careermastery/internal/httpapi"
	"github.com/puentesglobales/careermastery/internal/llm"
	. "github.com/puentesglobales/careermastery/internal/logging"
	"github.com/puentesglobales/careermastery/internal/psychometric"
	"github.com/puentesglobales/careermastery/internal/session"
	"github.com/puentesglobales/careermastery/internal/wizard"
)

const version = "0.1.0"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("careermastery %s\n", version)
		return
	}

	Init(&Config{
		Level:      LevelInfo,
		ShowCaller: true,
	})

	L_info("careermastery %s starting", version)

	if err := godotenv.Load(); err != nil {
		L_debug("no .env file, using process environment")
	}

	configPath := os.Getenv("CAREERMASTERY_CONFIG")
	if configPath == "" {
		configPath = "careermastery.json"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		L_fatal("failed to load config: %v", err)
	}

	router, err := llm.NewRouter(cfg.Router)
	if err != nil {
		L_fatal("failed to build router: %v", err)
	}

	store := session.NewMemoryStore(time.Duration(cfg.Session.TimeoutMinutes)*time.Minute, time.Now)
	sweeper, err := session.NewSweeper(store, cfg.Session.SweepSpec)
	if err != nil {
		L_fatal("failed to schedule session sweep: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	srv := httpapi.NewServer(cfg.Server.Port,
		coach.New(router, store, nil),
		ats.NewService(router),
		wizard.NewEngine(router),
		psychometric.NewEngine(router, nil),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			L_fatal("http server failed: %v", err)
		}
	case s := <-sig:
		L_info("shutting down", "signal", s.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			L_error("shutdown: %v", err)
		}
	}

	L_info("careermastery stopped")
}
