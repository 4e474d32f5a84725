package app

import (
	"context"
	"time"

	"github.com/charly-com/safenaija/internal/config"
	"github.com/charly-com/safenaija/internal/gateway"
	"github.com/charly-com/safenaija/internal/logger"
	"github.com/charly-com/safenaija/internal/middleware"
	"github.com/charly-com/safenaija/internal/ussd"
	"github.com/charly-com/safenaija/internal/webhook"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	checker, err := infra.safetyChecker(cfg)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	store, closeStore := infra.sessionStore(cfg)
	sink := infra.sink(cfg)

	router := ussd.NewRouter(ussd.ServiceCodes{
		Emergency:   cfg.ServiceCodeEmergency,
		CrimeReport: cfg.ServiceCodeCrime,
		SafetyCheck: cfg.ServiceCodeSafety,
	}, checker)

	engine := gateway.NewEngine(store, router, sink, gateway.Options{
		GracePeriod:     cfg.SessionGracePeriod,
		DispatchTimeout: cfg.DispatchTimeout,
	})

	opsKey := middleware.NewOpsKeyMiddleware(cfg.OpsKeyHash)
	if !opsKey.Enabled() {
		logger.Warn("OPS_KEY_HASH not set, ops routes disabled", nil)
	}

	logger.Info("ussd engine ready", map[string]any{
		"session_backend": cfg.SessionBackend,
		"sinks":           sink.Len(),
		"safety_checker":  cfg.SafetyChecker,
	})

	// ----------------------------
	// Router
	// ----------------------------

	engineRouter := gin.New()
	engineRouter.Use(gin.Recovery())

	webhook.NewHandler(engine, sink, opsKey).RegisterRoutes(engineRouter)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return engineRouter, func() error {
		drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := engine.Wait(drainCtx); err != nil {
			logger.Warn("incident deliveries still running at shutdown", map[string]any{
				"error": err.Error(),
			})
		}

		if closeStore != nil {
			_ = closeStore()
		}
		return infra.Close()
	}, nil
}
