package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"drawvault-backend/internal/config"
	"drawvault-backend/internal/database"
	"drawvault-backend/internal/handlers"
	"drawvault-backend/internal/logging"
	"drawvault-backend/internal/middleware"
	"drawvault-backend/internal/services"
	"drawvault-backend/vault"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	index := services.NewMetadataService(db)
	store, err := vault.New(cfg.StoragePath, index, logger)
	if err != nil {
		logger.Fatal("failed to open storage root", zap.Error(err))
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret, logger)
	folderHandler := handlers.NewFolderHandler(store, cfg, logger)
	adminHandler := handlers.NewAdminHandler(db, logger)

	router := http.NewServeMux()

	router.HandleFunc("POST /api/auth/register", authHandler.RegisterUser)
	router.HandleFunc("POST /api/auth/login", authHandler.LoginUser)
	router.Handle("GET /api/auth/me", authMiddleware.RequireAuth(http.HandlerFunc(authHandler.GetMe)))

	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.RequireAuth(h)
	}
	router.Handle("GET /api/folder/list", protected(folderHandler.List))
	router.Handle("POST /api/folder/create-folder", protected(folderHandler.CreateFolder))
	router.Handle("POST /api/folder/rename", protected(folderHandler.Rename))
	router.Handle("POST /api/folder/delete", protected(folderHandler.Delete))
	router.Handle("POST /api/folder/upload", protected(folderHandler.Upload))
	router.Handle("GET /api/folder/search", protected(folderHandler.Search))
	router.Handle("POST /api/folder/reindex", authMiddleware.RequireAdmin(http.HandlerFunc(folderHandler.Reindex)))

	admin := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.RequireAdmin(h)
	}
	router.Handle("POST /api/admin/add-company", admin(adminHandler.AddCompany))
	router.Handle("POST /api/admin/edit-company", admin(adminHandler.EditCompany))
	router.Handle("POST /api/admin/delete-company", admin(adminHandler.DeleteCompany))
	router.Handle("POST /api/admin/add-assembly", admin(adminHandler.AddAssembly))
	router.Handle("POST /api/admin/edit-assembly", admin(adminHandler.EditAssembly))
	router.Handle("POST /api/admin/delete-assembly", admin(adminHandler.DeleteAssembly))
	router.Handle("GET /api/admin/company-codes", protected(adminHandler.CompanyCodes))
	router.Handle("GET /api/admin/assembly-codes", protected(adminHandler.AssemblyCodes))
	router.Handle("GET /api/admin/get-metadata", protected(adminHandler.ReferenceData))

	router.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.Metrics(middleware.RequestLogger(logger)(corsMiddleware(router)))

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	logger.Info("server starting", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Must be more strict, because of http-only cookies, otherwise won't work
		w.Header().Set("Access-Control-Allow-Origin", "http://localhost:5173")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
