// Package importer provides the bulk group import handler.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/coursemark/coursemark/internal/config"
	assignmentctl "github.com/coursemark/coursemark/internal/db/controller/assignment"
	importerctl "github.com/coursemark/coursemark/internal/db/controller/importer"
	"github.com/coursemark/coursemark/internal/web/handler"
)

const (
	// Path is the path of the bulk import endpoint.
	Path = "/assignments/:shortid/groupings/import"
)

// Service is the bulk import handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the bulk import handler.
var Handler = Service{}

// Init initializes the bulk import handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app, cfg, or db is nil")
	}

	s.db = db
	s.cfg = cfg

	app.Post(Path, s.Post)

	return nil
}

// rowFailure is the serialized form of one failed import row.
type rowFailure struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Post imports groupings from a csv body of rows
// [groupName, repoName, member, member, ...]. With ?atomic=true any bad row
// rolls the whole batch back; otherwise failures are reported per row and
// good rows are kept.
func (s *Service) Post(c *fiber.Ctx) error {
	a, err := assignmentctl.Get(s.db, c.Params("shortid"))
	if err != nil {
		return handler.Error(c, err)
	}

	reader := csv.NewReader(bytes.NewReader(c.Body()))
	reader.FieldsPerRecord = -1 // rows carry a variable number of members

	rows, err := reader.ReadAll()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	atomic := c.QueryBool("atomic")

	created, failures, err := importerctl.ImportRows(s.db, a, rows, atomic)
	if err != nil {
		log.Error().Err(err).Str("short_identifier", a.ShortIdentifier).Msg("bulk import failed")
		return handler.Error(c, err)
	}

	out := make([]rowFailure, 0, len(failures))
	for _, f := range failures {
		out = append(out, rowFailure{Row: f.Row, Error: f.Err.Error()})
	}

	log.Info().
		Str("short_identifier", a.ShortIdentifier).
		Int("created", len(created)).
		Int("failed", len(out)).
		Msg("bulk import finished")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"created":  created,
		"failures": out,
	})
}
