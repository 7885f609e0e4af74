package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newSeedCmd(app *App, flags *catalogFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Store the --catalog source in the --db database",
		Long: `Replaces the catalog stored in the SQLite database. Running servers
pointed at the same file pick it up on their next reload check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.db == "" {
				return errors.New("--db is required")
			}
			source := flags.sourceName()
			cat, err := app.Factory.Load(source)
			if err != nil {
				return err
			}

			store, err := app.OpenStore(flags.db)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SaveCatalog(cmd.Context(), cat, source); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d plans from %s into %s\n", cat.Len(), source, flags.db)
			return nil
		},
	}
}

func newExportCmd(app *App, flags *catalogFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the catalog as a JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := flags.load(cmd.Context(), app)
			if err != nil {
				return err
			}
			doc, err := app.Factory.Marshal(cat)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), doc)
			return nil
		},
	}
}
