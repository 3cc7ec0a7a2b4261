package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/keyaccount/backend/internal/config"
	"github.com/keyaccount/backend/internal/handler"
	"github.com/keyaccount/backend/internal/logging"
	"github.com/keyaccount/backend/internal/storage"
)

func main() {
	cfg, err := config.LoadUploads()
	if err != nil {
		logging.Setup("uploads", "INFO")
		logging.Fatal("load config failed", "error", err)
	}
	logging.Setup("uploads", cfg.LogLevel)

	files := storage.NewLocalStorage(cfg.UploadsDir, strings.TrimRight(cfg.PublicBaseURL, "/")+"/uploads")
	if err := files.EnsureDir(); err != nil {
		logging.Fatal("create uploads dir failed", "error", err)
	}
	books := storage.NewJSONBookStore(cfg.BooksFile, cfg.BooksFileLock)
	if err := books.EnsureFile(); err != nil {
		logging.Fatal("create data file failed", "error", err)
	}
	if !cfg.BooksFileLock {
		slog.Warn("books file locking disabled; concurrent uploads may overwrite each other")
	}

	bookHandler := handler.NewBookHandler(books, files)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /books", bookHandler.List)
	mux.HandleFunc("POST /books", bookHandler.Create)
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(files.Dir()))))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.Recoverer(middleware.RequestID(handler.RequestLogger(handler.CORS("*")(mux)))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("uploads server listening",
			"addr", server.Addr,
			"uploads_dir", cfg.UploadsDir,
			"books_file", cfg.BooksFile,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
