package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bodhini/config"
	"bodhini/internal/adapters/auth"
	"bodhini/internal/adapters/email"
	"bodhini/internal/adapters/emailcheck"
	"bodhini/internal/adapters/storage"
	deliveryhttp "bodhini/internal/delivery/http"
	"bodhini/internal/delivery/http/controllers"
	"bodhini/internal/domain"
	"bodhini/internal/repository/postgres"
	"bodhini/internal/services"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var runMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&runMigrations, "migrate", false, "apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if runMigrations {
		if err := postgres.RunMigrations(cfg.DBUrl, cfg.MigrationsPath, logger); err != nil {
			return err
		}
	}

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	fileStorage, err := storage.New(storage.Config{
		Provider:  cfg.Storage.Provider,
		LocalRoot: cfg.MediaRootPath,
		MinIO: storage.MinIOConfig{
			Endpoint:  cfg.Storage.MinIO.Endpoint,
			AccessKey: cfg.Storage.MinIO.AccessKey,
			SecretKey: cfg.Storage.MinIO.SecretKey,
			Bucket:    cfg.Storage.MinIO.Bucket,
			UseSSL:    cfg.Storage.MinIO.UseSSL,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	mediaRoot := ""
	if local, ok := fileStorage.(*storage.LocalStorage); ok {
		mediaRoot = local.Root()
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mail.SES.Region,
			AccessKeyID:        cfg.Mail.SES.AccessKeyID,
			SecretAccessKey:    cfg.Mail.SES.SecretAccessKey,
			InsecureSkipVerify: cfg.Mail.SES.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("init mailer: %w", err)
	}

	clock := domain.SystemClock{}
	jwt := auth.NewJWT(cfg.SecretKey)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), cfg.Mail.ReceivingAddress, logger)
	accountService := services.NewAccountService(
		postgres.NewUserRepository(db),
		postgres.NewProfileRepository(db),
		auth.NewBcryptHasher(0),
		jwt,
		cfg.TokenExpiry,
		newEmailChecker(cfg.EmailCheck),
		emailService,
		fileStorage,
		clock,
		logger,
		cfg.RequestTimeout,
	)
	eventService := services.NewEventService(postgres.NewEventRepository(db), clock, cfg.RequestTimeout)
	mediaService := services.NewMediaService(postgres.NewMediaRepository(db), fileStorage, clock, logger, cfg.RequestTimeout)

	router := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
		Logger:         logger,
		TokenVerifier:  jwt,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedOrigins: cfg.AllowedOrigins,
		MediaRoot:      mediaRoot,
		Auth:           controllers.NewAuthController(logger, accountService),
		Profile:        controllers.NewProfileController(logger, accountService),
		Event:          controllers.NewEventController(logger, eventService),
		Media:          controllers.NewMediaController(logger, mediaService),
		Contact:        controllers.NewContactController(logger, emailService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serveUntilDone(ctx, srv, "api")
}

func newEmailChecker(c config.EmailCheckConfig) domain.EmailChecker {
	if c.Mode == "remote" {
		logger.Info("using remote email checker", "url", c.URL, "timeout", c.Timeout)
		return emailcheck.NewHTTPChecker(&http.Client{}, c.URL, c.Timeout)
	}
	return emailcheck.NewLocalChecker()
}

// serveUntilDone runs srv until ctx is cancelled, then shuts it down gracefully.
func serveUntilDone(ctx context.Context, srv *http.Server, name string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "name", name, "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%s server: %w", name, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server", "name", name)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s server shutdown: %w", name, err)
	}
	logger.Info("server exited", "name", name)
	return nil
}
