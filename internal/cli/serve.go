package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/skinderma/internal/api"
	"github.com/terraincognita07/skinderma/internal/config"
	"github.com/terraincognita07/skinderma/internal/i18n"
	"github.com/terraincognita07/skinderma/internal/security"
	"github.com/terraincognita07/skinderma/internal/services"
)

func serveCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web interface and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, *configFile)
			if err != nil {
				return err
			}
			defer func() { _ = rt.close() }()

			app, err := newServerApp(rt)
			if err != nil {
				return err
			}

			sigCtx, stopSignals := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stopSignals()

			go func() {
				<-sigCtx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
				defer cancel()
				if err := app.ShutdownWithContext(shutdownCtx); err != nil {
					rt.logger.WithError(err).Error("server shutdown failed")
				}
			}()

			rt.logger.WithField("addr", rt.cfg.ListenAddress()).Info("skinderma listening")
			return app.Listen(rt.cfg.ListenAddress())
		},
	}
}

func newServerApp(rt *runtime) (*fiber.App, error) {
	secretKey := rt.cfg.Server.SecretKey
	if secretKey == "" {
		generated, err := security.EphemeralSecretKey()
		if err != nil {
			return nil, err
		}
		secretKey = generated
		rt.logger.Warn("no secret key configured; share links will stop working after restart")
	} else if err := config.ValidateSecretKey(secretKey); err != nil {
		return nil, err
	}

	i18nManager, err := i18n.NewManager(rt.cfg.I18n.DefaultLanguage, rt.cfg.I18n.LocalesDir)
	if err != nil {
		return nil, err
	}

	handler, err := api.NewHandler(api.Options{
		Diagnosis:    services.NewDiagnosisService(rt.catalog),
		I18n:         i18nManager,
		Logger:       rt.logger,
		SecretKey:    secretKey,
		CookieSecure: rt.cfg.Server.CookieSecure,
		ShareTTL:     rt.cfg.Share.TokenTTL,
		TemplateDir:  rt.cfg.Templates.Dir,
	})
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "Skin Derma",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: rt.logger.Writer()}))
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)
	app.Use(csrf.New(api.CSRFConfig(rt.cfg.Server.CookieSecure)))

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app, nil
}
