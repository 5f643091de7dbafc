package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/capedit/capedit/internal/config"
	"github.com/capedit/capedit/internal/editor"
	"github.com/capedit/capedit/internal/player"
	"github.com/capedit/capedit/internal/server"
	"github.com/capedit/capedit/internal/transcribe"
	"github.com/capedit/capedit/internal/video"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the caption editing API server",
	Long: `Run the HTTP API a caption editing frontend talks to.

The server hosts one editing session: load a video, generate captions,
edit them and export the result. Configuration comes from the
environment or a local .env file.

Examples:
  capedit serve
  CAPEDIT_PORT=9090 capedit serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	transcriber, err := transcribe.Factory(ctx, transcribe.Provider(cfg.Provider), cfg.APIKey(), cfg.TranscribeOptions())
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	burner := video.NewBurner(logger, video.DefaultBurnOptions())
	session := editor.NewSession(logger, player.NewMemory(0), transcriber, burner)

	return server.New(cfg, logger, session).Start()
}
