// Package main is the entry point for the Arvix storefront server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arvix/internal/auth"
	"arvix/internal/cache"
	"arvix/internal/catalog"
	"arvix/internal/config"
	"arvix/internal/database"
	"arvix/internal/handlers"
	"arvix/internal/imaging"
	"arvix/internal/mail"
	"arvix/internal/media"
	"arvix/internal/metrics"
	"arvix/internal/middleware"
	"arvix/internal/render"
	"arvix/internal/router"
	"arvix/internal/session"
	"arvix/internal/storage"
	"arvix/internal/store"
)

const (
	// loginAttempts and formSubmissions are per-IP limits per window.
	loginAttempts   = 10
	formSubmissions = 20
	rateWindow      = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON elsewhere.
	if cfg.IsDev() {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))
	} else {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	if err := run(cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped gracefully")
}

func run(cfg *config.Config) error {
	// Connect to PostgreSQL and bring the schema up to date.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	// Seed the catalog in development (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	// Valkey holds admin sessions.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	secure := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secure)

	authenticator, err := newAuthenticator(cfg)
	if err != nil {
		return err
	}

	imaging.Startup(0)
	defer imaging.Shutdown()

	uploads, err := newUploadBackend(cfg)
	if err != nil {
		return err
	}
	// Reads fall back to the public asset directory.
	files := storage.Chain{uploads, storage.NewLocalReadOnly(cfg.PublicDir)}

	m := metrics.New()
	ingestor := media.NewIngestor(uploads, imaging.Options{
		MaxWidth: cfg.ImageMaxWidth,
		Quality:  cfg.ImageQuality,
	}, m)

	notifier := mail.New(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		To:       cfg.QuoteRecipients(),
		BaseURL:  cfg.BaseURL,
	}, m)
	if !cfg.SMTPConfigured() {
		slog.Warn("smtp not configured, quote notifications disabled")
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}

	categories := store.NewCategoryStore(db)
	products := store.NewProductStore(db)
	svc := catalog.New(categories, products)
	stores := handlers.Stores{
		Settings:     store.NewSiteSettingStore(db),
		Slides:       store.NewSlideStore(db),
		Blog:         store.NewBlogStore(db),
		FAQs:         store.NewFAQStore(db),
		Testimonials: store.NewTestimonialStore(db),
		Messages:     store.NewMessageStore(db),
		Quotes:       store.NewQuoteStore(db),
		Categories:   categories,
		Products:     products,
	}

	loginLimiter := middleware.NewRateLimiter(loginAttempts, rateWindow)
	defer loginLimiter.Stop()
	formLimiter := middleware.NewRateLimiter(formSubmissions, rateWindow)
	defer formLimiter.Stop()

	var enroller handlers.Enroller
	if authenticator.TOTPEnabled() {
		enroller = authenticator
	}

	r := router.New(router.Deps{
		Sessions:     sessionStore,
		API:          handlers.NewAPI(svc, stores, ingestor, files, notifier, m, cfg.MaxUploadBytes()),
		Auth:         handlers.NewAuth(authenticator, sessionStore, enroller, "Arvix Premium", secure),
		Public:       handlers.NewPublic(renderer, svc, stores),
		Metrics:      m,
		Secure:       secure,
		CORSOrigins:  cfg.CORSOrigins,
		LoginLimiter: loginLimiter,
		FormLimiter:  formLimiter,
	})

	// WriteTimeout must cover the slowest route, the image upload.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      3 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newAuthenticator builds the single admin login. In development a
// plaintext ADMIN_PASSWORD is hashed at startup.
func newAuthenticator(cfg *config.Config) (*auth.Static, error) {
	hash := cfg.AdminPasswordHash
	if hash == "" {
		if !cfg.IsDev() || cfg.AdminPassword == "" {
			return nil, errors.New("ADMIN_PASSWORD_HASH is not set")
		}
		var err error
		if hash, err = auth.HashPassword(cfg.AdminPassword); err != nil {
			return nil, err
		}
		slog.Warn("using plaintext ADMIN_PASSWORD, set ADMIN_PASSWORD_HASH outside development")
	}
	a, err := auth.NewStatic(cfg.AdminUsername, hash, cfg.AdminTOTPSecret)
	if err != nil {
		return nil, err
	}
	slog.Info("admin login configured", "username", a.Username(), "totp", a.TOTPEnabled())
	return a, nil
}

// newUploadBackend stores uploads in S3 when configured and in the local
// upload directory otherwise.
func newUploadBackend(cfg *config.Config) (storage.Backend, error) {
	if cfg.S3Configured() {
		b, err := storage.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
		if err != nil {
			return nil, err
		}
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		return b, nil
	}
	b, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	slog.Info("local upload storage", "dir", cfg.UploadDir)
	return b, nil
}
