package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/daffadev/pamer-backend/api"
	"github.com/daffadev/pamer-backend/auth"
	"github.com/daffadev/pamer-backend/database"
	"github.com/daffadev/pamer-backend/portfolio"
	"github.com/daffadev/pamer-backend/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	c, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	db, err := database.Open(c)
	if err != nil {
		return err
	}
	currentDB := database.New(db)

	bucket, err := storage.NewFromConfig(c, log.With().Str("component", "storage").Logger())
	if err != nil {
		return err
	}

	verifier, err := auth.NewFromConfig(ctx, c, log.With().Str("component", "auth").Logger())
	if err != nil {
		return fmt.Errorf("initialize token verifier: %w", err)
	}

	repo := portfolio.NewRepository(currentDB.ProjectRepo(), currentDB.CategoryRepo(), bucket)

	server, err := api.NewServer(c, repo, verifier)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	errChannel := make(chan error, 2)
	go server.Start(errChannel)
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
