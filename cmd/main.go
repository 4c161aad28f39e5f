package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createURLHandler "github.com/m04kA/SMC-ParserStorageService/internal/api/handlers/create_url"
	deleteURLHandler "github.com/m04kA/SMC-ParserStorageService/internal/api/handlers/delete_url"
	getDataHandler "github.com/m04kA/SMC-ParserStorageService/internal/api/handlers/get_data"
	getStatusHandler "github.com/m04kA/SMC-ParserStorageService/internal/api/handlers/get_status"
	getURLHandler "github.com/m04kA/SMC-ParserStorageService/internal/api/handlers/get_url"
	getURLsHandler "github.com/m04kA/SMC-ParserStorageService/internal/api/handlers/get_urls"
	saveDataHandler "github.com/m04kA/SMC-ParserStorageService/internal/api/handlers/save_data"
	updateURLHandler "github.com/m04kA/SMC-ParserStorageService/internal/api/handlers/update_url"
	"github.com/m04kA/SMC-ParserStorageService/internal/api/middleware"
	"github.com/m04kA/SMC-ParserStorageService/internal/config"
	"github.com/m04kA/SMC-ParserStorageService/internal/infra/directdb"
	pgStore "github.com/m04kA/SMC-ParserStorageService/internal/infra/tablestore/pg"
	restStore "github.com/m04kA/SMC-ParserStorageService/internal/infra/tablestore/rest"
	storageService "github.com/m04kA/SMC-ParserStorageService/internal/service/storage"
	"github.com/m04kA/SMC-ParserStorageService/pkg/logger"
	"github.com/m04kA/SMC-ParserStorageService/pkg/metrics"
)

// directConnectorAdapter приводит *directdb.Connector к контракту сервиса
// хранения: Connect возвращает конкретный *directdb.Conn, а контракту нужен
// интерфейсный тип возврата
type directConnectorAdapter struct {
	connector *directdb.Connector
}

func (a directConnectorAdapter) Connect(ctx context.Context) (storageService.DirectConn, error) {
	return a.connector.Connect(ctx)
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ParserStorageService...")
	log.Info("Configuration loaded from config.toml (storage mode=%s)", cfg.Storage.Mode)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Строка прямого подключения: явный DSN из окружения, вывод из URL Supabase
	// или поля [database] конфигурации
	directDSN := cfg.Supabase.DirectDSN
	if directDSN == "" && cfg.Supabase.URL != "" && cfg.Supabase.ServiceKey != "" {
		if derived, derr := directdb.DSNFromSupabaseURL(cfg.Supabase.URL, cfg.Supabase.ServiceKey); derr == nil {
			directDSN = derived
		} else {
			log.Warn("Direct connection DSN could not be derived from SUPABASE_URL: %v", derr)
		}
	}
	if directDSN == "" && cfg.Storage.Mode == "postgres" {
		directDSN = cfg.Database.DSN()
	}

	var directConnector storageService.DirectConnector
	if directDSN != "" {
		directConnector = directConnectorAdapter{directdb.NewConnector(directDSN, log)}
	} else {
		log.Warn("Direct PostgreSQL connection is not configured: schema provisioning and escalation steps 2-3 are unavailable")
	}

	// Выбираем реализацию табличного хранилища
	var (
		factory storageService.ClientFactory
		db      *sql.DB
	)

	switch cfg.Storage.Mode {
	case "postgres":
		db, err = sql.Open("postgres", directDSN)
		if err != nil {
			log.Fatal("Failed to open database connection: %v", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to PostgreSQL directly")

		factory = pgStore.NewFactory(db)

	default:
		factory = restStore.NewFactory(
			cfg.Supabase.URL,
			cfg.Supabase.Key,
			cfg.Supabase.ServiceKey,
			time.Duration(cfg.Storage.RequestTimeout)*time.Second,
			log,
		)
	}
	if db != nil {
		defer db.Close()
	}

	// Инициализируем сервис хранения
	storageSvc := storageService.NewService(
		storageService.Config{
			BookingTable:     cfg.Storage.BookingTable,
			URLTable:         cfg.Storage.URLTable,
			BatchSize:        cfg.Storage.BatchSize,
			EscalationPause:  time.Duration(cfg.Storage.EscalationPauseSeconds) * time.Second,
			AllowSchemaReset: cfg.Storage.AllowSchemaReset,
		},
		factory,
		directConnector,
		metricsCollector,
		log,
	)

	initCtx, initCancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := storageSvc.Initialize(initCtx); err != nil {
		initCancel()
		log.Fatal("Failed to initialize storage service: %v", err)
	}
	initCancel()

	if storageSvc.Degraded() {
		log.Error("Storage service is running in degraded mode: writes are expected to fail")
	}
	defer storageSvc.Close()

	// Инициализируем handlers
	getData := getDataHandler.NewHandler(storageSvc, log)
	saveData := saveDataHandler.NewHandler(storageSvc, log)
	getStatus := getStatusHandler.NewHandler(storageSvc, log)
	createURL := createURLHandler.NewHandler(storageSvc, log)
	getURLs := getURLsHandler.NewHandler(storageSvc, log)
	getURL := getURLHandler.NewHandler(storageSvc, log)
	updateURL := updateURLHandler.NewHandler(storageSvc, log)
	deleteURL := deleteURLHandler.NewHandler(storageSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix, все маршруты закрыты ключом API
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.APIKeyAuth(cfg.APIKey))

	api.HandleFunc("/data", getData.Handle).Methods(http.MethodGet)
	api.HandleFunc("/data", saveData.Handle).Methods(http.MethodPost)
	api.HandleFunc("/status", getStatus.Handle).Methods(http.MethodGet)
	api.HandleFunc("/urls", getURLs.Handle).Methods(http.MethodGet)
	api.HandleFunc("/urls", createURL.Handle).Methods(http.MethodPost)
	api.HandleFunc("/urls/{url_id:[0-9]+}", getURL.Handle).Methods(http.MethodGet)
	api.HandleFunc("/urls/{url_id:[0-9]+}", updateURL.Handle).Methods(http.MethodPut)
	api.HandleFunc("/urls/{url_id:[0-9]+}", deleteURL.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
