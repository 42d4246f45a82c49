package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/etherxppt/deckd/internal/auth"
	"github.com/etherxppt/deckd/internal/collab"
	"github.com/etherxppt/deckd/internal/config"
	"github.com/etherxppt/deckd/internal/db"
	"github.com/etherxppt/deckd/internal/deckstore"
	"github.com/etherxppt/deckd/internal/editor"
	"github.com/etherxppt/deckd/internal/ipfs"
	"github.com/etherxppt/deckd/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the presentation editing server",
	Long:  `Starts the deckd server with the REST editing API, the collaboration WebSocket relay, and periodic autosave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if serverPort != 0 {
			cfg.Port = serverPort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		log, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer log.Sync()

		// Open database.
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		dbPath := filepath.Join(cfg.DataDir, "deckd.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:           cfg.Port,
			AllowedOrigins: cfg.AllowedOrigins,
		}, database, log)

		sessions := registerAllRoutes(srv, database, cfg, log)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Autosave loop; FlushAll runs once more on shutdown.
		go sessions.Run(ctx)

		go func() {
			<-ctx.Done()
			log.Info("shutting down server")
			srv.Shutdown(context.Background())
		}()

		log.Info("deckd starting",
			zap.String("version", Version),
			zap.Int("port", cfg.Port),
			zap.String("database", dbPath),
		)
		return srv.Start()
	},
}

// registerAllRoutes wires up the feature routes and returns the session
// manager so the caller can run its autosave loop.
func registerAllRoutes(srv *server.Server, database *db.DB, cfg *config.Config, log *zap.Logger) *editor.Manager {
	r := srv.Router()

	// Deck persistence
	decks := deckstore.NewStore(database)
	deckstore.RegisterRoutes(r, decks)

	// Editing sessions
	sessions := editor.NewManager(decks, time.Duration(cfg.AutosaveSeconds)*time.Second, log)
	editor.RegisterRoutes(r, sessions)

	// Accounts
	accounts := auth.NewStore(database)
	auth.RegisterRoutes(r, accounts, auth.LogMailer{Log: log}, log)

	// Collaboration relay
	hub := collab.NewHub(log)
	hub.RegisterRoutes(r)

	// IPFS pass-through
	ipfs.RegisterRoutes(r, ipfs.NewClient(cfg.IPFSGateway, log))

	return sessions
}

func init() {
	serverCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "override the configured HTTP port")
	rootCmd.AddCommand(serverCmd)
}
