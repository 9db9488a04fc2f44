package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/openmined/statusapi/internal/db"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newMigrateCmd())
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect database schema migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}

			cfg, err := configure(cmd)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			connector, err := db.NewConnector(cfg.DB)
			if err != nil {
				return err
			}

			conn, err := connector.Connect(cmd.Context())
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer conn.Close()

			m, err := db.NewMigrator(conn, connector.Driver())
			if err != nil {
				return err
			}

			switch action {
			case "down":
				return m.Down(cmd.Context())
			case "status":
				states, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "VERSION\tAPPLIED\tPATH")
				for _, s := range states {
					fmt.Fprintf(w, "%d\t%t\t%s\n", s.Version, s.Applied, s.Path)
				}
				return w.Flush()
			default:
				return m.Up(cmd.Context())
			}
		},
	}
}
