package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	dbpkg "github.com/BruksfildServices01/barber-agenda/internal/db"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(rootOpts, cmd)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(e.db); err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"migrated": true})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return err
		},
	}
}
