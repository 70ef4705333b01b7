package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/atvirokodosprendimai/seqnotes/internal/app"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
	"github.com/atvirokodosprendimai/seqnotes/internal/logger"
)

func main() {
	cmd := &cli.Command{
		Name:  "seqnotes",
		Usage: "SQLite-backed API for sequence records, documents, comments and notifications",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   ":8080",
				Sources: cli.EnvVars("SEQNOTES_ADDR"),
				Usage:   "HTTP listen address",
			},
			&cli.StringFlag{
				Name:    "db-path",
				Value:   "./seqnotes.sqlite",
				Sources: cli.EnvVars("SEQNOTES_DB_PATH"),
				Usage:   "SQLite file path",
			},
			&cli.StringFlag{
				Name:    "length-rule",
				Value:   string(domain.LengthRuleCodon),
				Sources: cli.EnvVars("SEQNOTES_LENGTH_RULE"),
				Usage:   "Sequence length check: codon (dna = 3 x protein) or literal (legacy dna = 3 x dna)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Sources: cli.EnvVars("SEQNOTES_LOG_LEVEL"),
				Usage:   "Log level (trace, debug, info, warn, error)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log := logger.New("seqnotes", c.String("log-level"))
			logger.SetDefault(log)

			rule, err := domain.ParseLengthRule(c.String("length-rule"))
			if err != nil {
				return err
			}

			cfg := app.Config{
				Addr:       c.String("addr"),
				DBPath:     c.String("db-path"),
				LengthRule: rule,
			}

			server, closer, err := app.NewServer(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			defer func() {
				if closeErr := closer.Close(); closeErr != nil {
					log.Error().Err(closeErr).Msg("close resources")
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Addr).Msg("listening")
				errCh <- server.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case sig := <-sigCh:
				log.Info().Str("signal", sig.String()).Msg("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger.New("seqnotes", "error").Fatal().Err(err).Send()
	}
}
