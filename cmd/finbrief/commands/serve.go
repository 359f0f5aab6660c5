package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/finbrief/internal/api"
	"github.com/wonny/finbrief/internal/api/handlers"
	"github.com/wonny/finbrief/pkg/logger"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "웹 서버 시작",
	Long: `검색 페이지와 JSON API를 제공하는 HTTP 서버를 시작합니다.

Endpoints:
  GET  /                     - 검색 페이지
  POST /                     - 검색 실행 (form)
  POST /api/briefings        - 검색 실행 (JSON)
  GET  /api/briefings        - 최근 실행 이력
  GET  /api/briefings/{id}   - 실행 결과 조회
  GET  /ws/briefings         - 단계별 진행 상황 (WebSocket)
  GET  /health               - Health check

Example:
  go run ./cmd/finbrief serve
  go run ./cmd/finbrief serve --port 8089 --with-scheduler`,
	RunE: runServe,
}

var (
	servePort          string
	serveWithScheduler bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flags
	serveCmd.Flags().StringVar(&servePort, "port", "", "HTTP 서버 포트 (기본값: PORT)")
	serveCmd.Flags().BoolVar(&serveWithScheduler, "with-scheduler", false, "스케줄러를 같은 프로세스에서 실행")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== finbrief Server ===")

	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Override port if flag is set
	if servePort != "" {
		cfg.Port = servePort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port":     cfg.Port,
		"env":      cfg.Env,
		"provider": cfg.LLM.Provider,
		"model":    cfg.LLM.Model,
	}).Info("Initializing server")

	// 3. Wire dependencies
	ctx := context.Background()
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	// 4. Create handlers
	h := api.Handlers{
		Page:     handlers.NewPageHandler(a.pipeline, log),
		Briefing: handlers.NewBriefingHandler(a.pipeline, a.store, log),
		Stream:   handlers.NewStreamHandler(a.pipeline, log),
		Health:   handlers.NewHealthHandler(a.db, a.redis),
	}

	// 5. Create router and server
	router := api.NewRouter(h, log)
	server := api.New(cfg, log, router)

	// 6. Optional in-process scheduler
	if serveWithScheduler {
		sched, err := newScheduler(a)
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 7. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("Server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal or a failed start
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-quit:
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
