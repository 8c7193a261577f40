package cli

import (
	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var (
		limit int
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the local event log",
	}

	listCmd := &cobra.Command{
		Use:   "list [article-id]",
		Short: "List events (newest-first); defaults to the current article",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			entityID := ""
			if !all {
				id, err := resolveArticleID(app, args)
				if err != nil {
					return writeErr(cmd, err)
				}
				entityID = id
			}
			evs, err := s.ReadEvents(cmd.Context(), entityID, limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 200, "Max events to return (0 = all)")
	listCmd.Flags().BoolVar(&all, "all", false, "Events for every article")

	cmd.AddCommand(listCmd)
	return cmd
}
