package cli

import (
	"github.com/capedit/capedit/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "capedit",
	Short: "AI-assisted caption editor for videos",
	Long: `Capedit generates captions for video files using AI transcription
and burns them into the video.

Captions can be edited over the HTTP API before export, and written
out as SRT or rendered directly onto the video.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}
