package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cueforge/internal/config"
	"cueforge/internal/logger"
	"cueforge/internal/session"
	"cueforge/internal/web"
)

const version = "0.3.0"

func main() {
	var (
		addr       string
		configPath string
		cuePath    string
		audioPath  string
	)

	flag.StringVar(&addr, "addr", "", "HTTP listen address (default from config)")
	flag.StringVar(&configPath, "config", "", "Config file path")
	flag.StringVar(&cuePath, "cue", "", "Cue sheet to open on startup")
	flag.StringVar(&audioPath, "audio", "", "Audio file to attach on startup")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if addr == "" {
		addr = cfg.WebAddr
	}

	// Setup logger with file logging
	l := logger.New(cfg.Verbose)
	logDir := config.DefaultLogDir()
	if err := os.MkdirAll(logDir, 0755); err == nil {
		logPath := filepath.Join(logDir, fmt.Sprintf("cueforge-web-%d.log", time.Now().Unix()))
		if err := l.SetFileLog(logPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to setup file logging: %v\n", err)
		}
	}
	defer l.Close()

	sess := session.New(l, version)
	if cuePath != "" {
		if err := sess.Load(cuePath); err != nil {
			l.Error("%v", err)
			os.Exit(1)
		}
	}
	if audioPath != "" {
		if err := sess.AttachAudio(audioPath); err != nil {
			l.Error("%v", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobMgr := web.NewJobManager()
	jobMgr.StartCleanup(ctx)
	server := web.NewServer(ctx, jobMgr, sess, cfg, l)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		l.Info("Starting web server on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("Server error: %v", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	l.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.Error("Server shutdown error: %v", err)
	}

	l.Info("Server stopped")
}
