// Package cli implements the schedulectl command tree.
package cli

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/warp/schedule-engine/catalog"
	"github.com/warp/schedule-engine/factory"
	"github.com/warp/schedule-engine/generic"
	"github.com/warp/schedule-engine/schedule"
	"github.com/warp/schedule-engine/store/sqlite"
)

// App holds what every command needs.
type App struct {
	Factory *factory.CatalogFactory
	Options schedule.Options

	// Today is the default --start.
	Today func() generic.TimePoint

	// OpenStore opens the SQLite store named by --db.
	OpenStore func(path string) (*sqlite.Store, error)
}

// NewApp returns an App with production defaults.
func NewApp() *App {
	return &App{
		Factory:   factory.NewCatalogFactory(),
		Options:   schedule.DefaultOptions(),
		Today:     generic.Today,
		OpenStore: sqlite.New,
	}
}

// catalogFlags selects where a command reads the catalog from.
type catalogFlags struct {
	source string
	legacy bool
	db     string
}

func (f *catalogFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.source, "catalog", "default", `catalog preset ("default", "legacy") or JSON file`)
	cmd.PersistentFlags().BoolVar(&f.legacy, "legacy", false, "shorthand for --catalog legacy")
	cmd.PersistentFlags().StringVar(&f.db, "db", "", "SQLite database: read its stored catalog, or the seed target")
}

func (f *catalogFlags) sourceName() string {
	if f.legacy {
		return "legacy"
	}
	return f.source
}

func (f *catalogFlags) load(ctx context.Context, app *App) (*catalog.Catalog, error) {
	if f.db == "" {
		return app.Factory.Load(f.sourceName())
	}

	store, err := app.OpenStore(f.db)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	cat, err := store.LoadCatalog(ctx)
	if generic.IsNotFound(err) {
		return nil, errors.Newf("no catalog stored in %s; run schedulectl seed first", f.db)
	}
	return cat, err
}

// NewRootCmd creates the top-level "schedulectl" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	flags := &catalogFlags{}

	root := &cobra.Command{
		Use:           "schedulectl",
		Short:         "Test schedule and billing calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.register(root)

	root.AddCommand(
		newProgramsCmd(app, flags),
		newScheduleCmd(app, flags),
		newSeedCmd(app, flags),
		newExportCmd(app, flags),
	)

	return root
}
