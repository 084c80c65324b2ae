package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelify/reelify/internal/store"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent processing runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			if dbPath == "" {
				dbPath = getenvDefault("REELIFY_DB", "reelify.db")
			}
			limit, _ := cmd.Flags().GetInt("limit")

			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				cmd.Println("no runs recorded")
				return nil
			}
			for _, r := range runs {
				line := fmt.Sprintf("%s  %-9s  %d/%d reels  %s",
					r.StartedAt.Local().Format("2006-01-02 15:04"),
					r.Status, r.ReelsGenerated, r.ReelsRequested, r.InputName)
				if r.Error != "" {
					line += "  (" + r.Error + ")"
				}
				cmd.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().String("db", "", "Processing-history SQLite path")
	cmd.Flags().Int("limit", 20, "Maximum runs to list")
	return cmd
}
