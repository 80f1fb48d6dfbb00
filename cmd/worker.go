/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/medilearn/apiserver/internal/logging"
	"github.com/medilearn/apiserver/internal/mq"
	"github.com/medilearn/apiserver/internal/server"
	"github.com/medilearn/apiserver/internal/services"
	"github.com/spf13/cobra"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consumes queued activity events and writes them to the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		log := logging.With("worker")

		broker, err := mq.Open(cmd.Context(), cfg.MQ)
		if err != nil {
			return err
		}
		if broker == nil {
			return errors.New("MQ_BACKEND is none; the worker needs a message queue")
		}
		defer broker.Close()

		repos, err := server.OpenRepositories(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer repos.Close(context.Background())

		activity := services.NewActivityService(repos.Activity, nil, cfg.MQ.ActivityChannel)

		log.Info().Str("channel", cfg.MQ.ActivityChannel).Msg("consuming activity events")
		err = broker.Subscribe(cmd.Context(), cfg.MQ.ActivityChannel, activity.HandleMessage)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("subscribe: %w", err)
		}
		log.Info().Msg("worker stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
