package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/iliyamo/storefront/internal/queue"
)

var auditLogPath string

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Append entity change events to the audit log",
	RunE: func(cmd *cobra.Command, _ []string) error {
		url := os.Getenv("RABBITMQ_URL")
		if url == "" {
			return errors.New("RABBITMQ_URL is required")
		}
		if !cmd.Flags().Changed("file") {
			if p := os.Getenv("AUDIT_LOG_PATH"); p != "" {
				auditLogPath = p
			}
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.Info().Str("queue", queue.QueueName).Str("file", auditLogPath).Msg("audit consumer started")
		err := queue.NewAuditConsumer(url, auditLogPath).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	consumeCmd.Flags().StringVar(&auditLogPath, "file", "logs/audit.log", "audit log file")
}
