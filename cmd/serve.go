package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/callprep/internal/offer"
	"github.com/sells-group/callprep/internal/prep"
	"github.com/sells-group/callprep/internal/script"
	"github.com/sells-group/callprep/internal/server"
	"github.com/sells-group/callprep/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the call-prep HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := store.New(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		assembler, err := script.NewAssembler()
		if err != nil {
			return err
		}

		calc := offer.New(offer.Params{
			DefaultDiscountLow:        cfg.Offer.DiscountLow,
			DefaultDiscountHigh:       cfg.Offer.DiscountHigh,
			DelinquencyYearsThreshold: cfg.Offer.DelinquencyYearsThreshold,
		})
		builder := prep.NewBuilder(st, calc, assembler)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.New(builder, st, cfg.Server, cfg.Offer.DiscountLow, cfg.Offer.DiscountHigh).Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Warn("shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
