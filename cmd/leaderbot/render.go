package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"leaderboard-bot/internal/board"
	"leaderboard-bot/internal/roster"
)

var (
	dataFile string
	maxItems int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the leaderboard messages for the data file",
	Long: `Render the leaderboard exactly as it would be posted, one fenced
message per chunk, without connecting to Discord.

Examples:
  leaderbot render                          # DATA_FILE or ./persist/leaderboard.json
  leaderbot render --data ./lb.json --max 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lb, err := loadBoard(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("max") {
			lb.MaxItems = maxItems
		}
		return writeChunks(cmd.OutOrStdout(), board.Render(lb))
	},
}

func init() {
	for _, c := range []*cobra.Command{renderCmd, ranksCmd} {
		c.Flags().StringVar(&dataFile, "data", "", "leaderboard JSON file (default: DATA_FILE)")
	}
	renderCmd.Flags().IntVar(&maxItems, "max", 0, "override the number of players shown")
}

// loadBoard reads the roster named by --data, falling back to the
// configured data file.
func loadBoard(cmd *cobra.Command) (*roster.Leaderboard, error) {
	path := dataFile
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.DataFile
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
	return roster.NewStore(path, logger).Load(cmd.Context())
}

func writeChunks(w io.Writer, chunks []string) error {
	for i, c := range chunks {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, c); err != nil {
			return err
		}
	}
	return nil
}
