package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "reelify <input>",
		Short:        "Cut short reel clips from a long-form video",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("out", "out", "Output directory")
	root.Flags().Int("reels", 2, "Number of reels to generate (1-5)")
	root.Flags().Int("duration", 30, "Target reel duration in seconds (15-60)")
	root.Flags().String("db", "", "Processing-history SQLite path (default $REELIFY_DB or reelify.db)")

	root.AddCommand(historyCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
