package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"marineportal/internal/config"
	"marineportal/internal/seed"
	"marineportal/internal/server"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "srv",
		Short: "Run the marine portal web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(host, port)
			if err != nil {
				return err
			}

			st, err := openRecordStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeQuietly(logger, "record store", st)

			bs, closeBlobs, err := openBlobStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeBlobs(); err != nil {
					logger.Warn("close failed", "what", "blob store", "error", err)
				}
			}()

			// A bad seed file must not keep the portal from starting.
			report, err := seed.EnsureSeeded(ctx, st, cfg.SeedFile, slog.Default().With("component", "seed"))
			if err != nil {
				logger.Error("seeding failed", "path", cfg.SeedFile, "error", err)
			} else if report.Total() > 0 {
				logger.Info("seeded empty collections", "path", report.Path, "inserted", report.Inserted)
			}

			srv := server.New(addr, st, bs, logger)
			srv.ConfigureUploadOptions(server.UploadOptions{
				MaxUploadBytes:     cfg.Uploads.MaxUploadBytes,
				MultipartMaxMemory: cfg.Uploads.MultipartMaxMemory,
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", cfg.Host, "listen host")
	cmd.Flags().IntVar(&port, "port", cfg.Port, "listen port")
	return cmd
}
