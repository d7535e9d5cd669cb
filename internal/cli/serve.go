package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cleanblog/internal/config"
	"github.com/cleanblog/internal/db"
	"github.com/cleanblog/internal/handler"
	"github.com/cleanblog/internal/logging"
	"github.com/cleanblog/internal/mailer"
	"github.com/cleanblog/internal/router"
	"github.com/cleanblog/web"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the blog HTTP server",
		Long: `Run the blog HTTP server.

The schema is created or upgraded on start. SECRET_KEY, MY_EMAIL and
PASSWORD must be set, either in the environment or in the --env-file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	gdb, err := db.Init(cfg.DatabasePath, logging.Gorm(log))
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer closeDB(gdb)

	smtp := mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.MailSender,
		Password: cfg.MailPassword,
	})

	api := handler.NewAPI(gdb, handler.Options{
		Mailer:      smtp,
		Logger:      log,
		Sender:      cfg.MailSender,
		Recipient:   cfg.ContactRecipient,
		MailTimeout: cfg.MailTimeout,
		About:       web.About,
	})

	r, err := router.SetupRouter(api, router.Config{
		SessionSecret: cfg.SessionSecret,
		SecureCookie:  cfg.SessionSecure,
		Logger:        log,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("run server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
