// Package daemon boots the coursemark service: database, migrations, seed
// data, and the web service.
package daemon

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/coursemark/coursemark/internal/config"
	"github.com/coursemark/coursemark/internal/db/dsn"
	"github.com/coursemark/coursemark/internal/db/models"
	"github.com/coursemark/coursemark/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	cfg        *config.Config
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	dialector, err := dsn.Dialector(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to select database driver")
		return nil
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
		return nil
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Assignment{},
		&models.SubmissionRule{},
		&models.RubricCriterion{},
		&models.Group{},
		&models.Grouping{},
		&models.Membership{},
		&models.Submission{},
		&models.Result{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
		return nil
	}

	seed(cfg, db)

	return &Daemon{
		webService: web.New(cfg, db),
		cfg:        cfg,
	}
}
