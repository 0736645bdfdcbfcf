package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subtitle-widget/domain/repository"
	"subtitle-widget/infrastructure/cache"
	youtubeclient "subtitle-widget/infrastructure/clients/youtube"
	"subtitle-widget/infrastructure/configuration"
	"subtitle-widget/infrastructure/logger"
	"subtitle-widget/infrastructure/metrics"
	"subtitle-widget/infrastructure/persistence"
	"subtitle-widget/infrastructure/videotype"
	httpHandler "subtitle-widget/interfaces/http"
	"subtitle-widget/server"
	"subtitle-widget/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

type repositories struct {
	accounts  repository.IThirdPartyAccount
	syncRules repository.ISyncRule
	videos    repository.IVideo
}

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	if n := configuration.LoadEnvFromFile("config.env", ".env"); n > 0 {
		logger.GetLogger().WithField("count", n).Info("Loaded environment from env files")
	}

	cfg := configuration.C
	app := cfg.App

	db, err := InitiateDatabase(cfg.Database.Vendor)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		os.Exit(1)
	}
	defer db.Close()
	repos := newRepositories(cfg.Database.Vendor, db)

	// Dialog call auditing is optional; without MySQL the calls are only logged.
	var dialogCalls repository.IDialogCall
	if cfg.Database.MySql.Host != "" {
		gormDb, err := persistence.NewRepositories()
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("MySQL not available - widget calls will only be logged")
		} else {
			dialogCalls = persistence.NewDialogCallRepository(gormDb)
		}
	}

	if cfg.RedisClient.Host != "" {
		redisClient, err := cache.NewCache(
			ctx,
			fmt.Sprintf("%s:%s", cfg.RedisClient.Host, cfg.RedisClient.Port),
			cfg.RedisClient.Username,
			cfg.RedisClient.Password,
			cfg.RedisClient.DB,
		)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not available - sync rule is read from the database")
		} else {
			defer redisClient.Close()
			repos.syncRules = cache.NewCachedSyncRuleRepository(repos.syncRules, redisClient,
				time.Duration(cfg.SyncRuleCache.TTLSeconds)*time.Second)
		}
	}

	recorder := metrics.Init(cfg.Metrics.Enabled)

	oauthConfig := configuration.YouTubeOAuthConfig(cfg.YouTube)
	captions := youtubeclient.NewAccountFactory(oauthConfig, repos.accounts)
	registry := videotype.NewRegistry(captions)

	mirrorUsecase := usecase.NewMirrorUsecase(repos.accounts, repos.syncRules, repos.videos, registry, recorder, cfg.YouTube.AlwaysPushUsername)
	syncRuleUsecase := usecase.NewSyncRuleUsecase(repos.syncRules)
	accountUsecase := usecase.NewAccountUsecase(repos.accounts, youtubeclient.NewLinker(oauthConfig))

	dispatcher, err := usecase.NewRPCDispatcher(
		usecase.NewWidgetRPC(repos.videos, mirrorUsecase),
		usecase.NewNullWidgetRPC(),
		dialogCalls,
		cfg.Widget.LoggableMethods,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Widget RPC providers are inconsistent")
		os.Exit(1)
	}

	router := server.InitiateRouter(
		httpHandler.NewWidgetRPCHandler(dispatcher, recorder, time.Duration(cfg.Widget.UserMessageTTLSeconds)*time.Second),
		httpHandler.NewAccountHandler(accountUsecase),
		httpHandler.NewSyncRuleHandler(syncRuleUsecase),
		httpHandler.NewMirrorHandler(mirrorUsecase),
		httpHandler.NewHealthHandler(),
		server.RouterOptions{
			Origins:         app.Origins,
			SecretKey:       app.SecretKey,
			BrowserIDCookie: cfg.Widget.BrowserIDCookie,
			MetricsEnabled:  cfg.Metrics.Enabled,
		},
	)

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateDatabase opens the primary store for vendor ("mssql" or "psql") and makes sure its schema exists.
func InitiateDatabase(vendor string) (*sql.DB, error) {
	if vendor == "mssql" {
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to MSSQL")
			return nil, err
		}
		if err := persistence.EnsureSchemaMSSQL(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		return nil, err
	}
	if err := persistence.EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newRepositories(vendor string, db *sql.DB) repositories {
	if vendor == "mssql" {
		return repositories{
			accounts:  persistence.NewThirdPartyAccountRepositoryMSSQL(db),
			syncRules: persistence.NewSyncRuleRepositoryMSSQL(db),
			videos:    persistence.NewVideoRepositoryMSSQL(db),
		}
	}
	return repositories{
		accounts:  persistence.NewThirdPartyAccountRepository(db),
		syncRules: persistence.NewSyncRuleRepository(db),
		videos:    persistence.NewVideoRepository(db),
	}
}
