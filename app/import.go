package app

import (
	"encoding/csv"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/coursemark/coursemark/internal/config"
	assignmentctl "github.com/coursemark/coursemark/internal/db/controller/assignment"
	importerctl "github.com/coursemark/coursemark/internal/db/controller/importer"
	"github.com/coursemark/coursemark/internal/db/dsn"
	"github.com/coursemark/coursemark/internal/logger"
)

func init() { //nolint: gochecknoinits
	importCmd.Flags().BoolVar(&importAtomic, "atomic", false, "Roll the whole import back on any bad row")
	importCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration directory")

	rootCmd.AddCommand(importCmd)
}

var (
	importAtomic bool

	importCmd = &cobra.Command{
		Use:   "import-groups <short-identifier> <csv-file>",
		Short: "Import groupings for an assignment from a csv file",
		Long: `Import groupings from a csv file with rows of the shape
group_name,repo_name,member,member,... The first member becomes the
inviter, the rest join as accepted.`,
		Args: cobra.ExactArgs(2), //nolint: mnd
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}

			if err = logger.Init(cfg.Log); err != nil {
				panic(err)
			}
		},
		RunE: func(_ *cobra.Command, args []string) error {
			db, err := openDB(&cfg)
			if err != nil {
				return err
			}

			return runImport(db, args[0], args[1])
		},
	}
)

func openDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dsn.Dialector(cfg)
	if err != nil {
		return nil, err
	}

	return gorm.Open(dialector, &gorm.Config{})
}

func runImport(db *gorm.DB, shortID, csvPath string) error {
	a, err := assignmentctl.Get(db, shortID)
	if err != nil {
		return err
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return err
	}

	defer func() {
		_ = f.Close()
	}()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // rows carry a variable number of members

	rows, err := reader.ReadAll()
	if err != nil {
		return err
	}

	created, failures, err := importerctl.ImportRows(db, a, rows, importAtomic)
	if err != nil {
		return err
	}

	for _, f := range failures {
		log.Error().Int("row", f.Row).Err(f.Err).Msg("row not imported")
	}

	log.Info().
		Str("short_identifier", a.ShortIdentifier).
		Int("created", len(created)).
		Int("failed", len(failures)).
		Msg("import finished")

	return nil
}
