// Package assignment provides handlers for assignment management.
package assignment

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/coursemark/coursemark/internal/config"
	assignmentctl "github.com/coursemark/coursemark/internal/db/controller/assignment"
	groupingctl "github.com/coursemark/coursemark/internal/db/controller/grouping"
	"github.com/coursemark/coursemark/internal/db/models"
	"github.com/coursemark/coursemark/internal/web/handler"
)

const (
	// Path is the base path of the assignment routes.
	Path = "/assignments"
)

// Service is the assignment handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the assignment handler.
var Handler = Service{}

// Init initializes the assignment handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app, cfg, or db is nil")
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Post(handler.RouterRootPath, s.Post)
		router.Get("/:shortid", s.Get)
		router.Put("/:shortid/due-date", s.PutDueDate)
		router.Put("/:shortid/submission-rule", s.PutSubmissionRule)
		router.Post("/:shortid/results-average", s.PostResultsAverage)
		router.Get("/:shortid/svn-commands", s.GetSVNCommands)
		router.Post("/:shortid/clone-from/:sourceid", s.PostCloneFrom)
	})

	return nil
}

// Post handles assignment creation, including the submission rule and the
// rubric criteria in one request.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(createRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	in := assignmentctl.CreateInput{
		ShortIdentifier:        req.ShortIdentifier,
		Description:            req.Description,
		DueDate:                req.DueDate,
		GroupMin:               req.GroupMin,
		GroupMax:               req.GroupMax,
		RepositoryFolder:       req.RepositoryFolder,
		InstructorFormGroups:   req.InstructorFormGroups,
		GroupNameAutogenerated: req.GroupNameAutogenerated,
		GroupNameDisplayed:     req.GroupNameDisplayed,
		Rule: models.SubmissionRule{
			Type:          models.SubmissionRuleType(req.Rule.Type),
			Hours:         req.Rule.Hours,
			IntervalHours: req.Rule.IntervalHours,
			Deduction:     req.Rule.Deduction,
		},
	}

	for _, cr := range req.Criteria {
		in.Criteria = append(in.Criteria, models.RubricCriterion{
			Title:    cr.Title,
			Weight:   cr.Weight,
			Position: cr.Position,
		})
	}

	a, err := assignmentctl.Create(s.db, in)
	if err != nil {
		log.Error().Err(err).Str("short_identifier", req.ShortIdentifier).Msg("failed to create assignment")
		return handler.Error(c, err)
	}

	log.Info().Str("short_identifier", a.ShortIdentifier).Msg("assignment created")

	return c.Status(fiber.StatusCreated).JSON(a)
}

// Get returns one assignment with its submission rule.
func (s *Service) Get(c *fiber.Ctx) error {
	a, err := assignmentctl.Get(s.db, c.Params("shortid"))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(a)
}

// PutDueDate moves the assignment deadline.
func (s *Service) PutDueDate(c *fiber.Ctx) error {
	req := new(dueDateRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	a, err := assignmentctl.Get(s.db, c.Params("shortid"))
	if err != nil {
		return handler.Error(c, err)
	}

	if err := assignmentctl.ChangeDueDate(s.db, a, req.DueDate, time.Now()); err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(a)
}

// PutSubmissionRule swaps the assignment's lateness policy.
func (s *Service) PutSubmissionRule(c *fiber.Ctx) error {
	req := new(ruleRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	a, err := assignmentctl.Get(s.db, c.Params("shortid"))
	if err != nil {
		return handler.Error(c, err)
	}

	rule := &models.SubmissionRule{
		Type:          models.SubmissionRuleType(req.Type),
		Hours:         req.Hours,
		IntervalHours: req.IntervalHours,
		Deduction:     req.Deduction,
	}

	if err := groupingctl.ReplaceSubmissionRule(s.db, a, rule); err != nil {
		log.Error().Err(err).Str("short_identifier", a.ShortIdentifier).Msg("failed to replace submission rule")
		return handler.Error(c, err)
	}

	log.Info().
		Str("short_identifier", a.ShortIdentifier).
		Str("rule_type", string(rule.Type)).
		Msg("submission rule replaced")

	return c.JSON(a)
}

// PostResultsAverage recomputes the released grade average of the assignment.
func (s *Service) PostResultsAverage(c *fiber.Ctx) error {
	a, err := assignmentctl.Get(s.db, c.Params("shortid"))
	if err != nil {
		return handler.Error(c, err)
	}

	updated, err := assignmentctl.SetResultsAverage(s.db, a)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{
		"updated":         updated,
		"results_average": a.ResultsAverage,
	})
}

// GetSVNCommands returns the svn export script for the assignment.
func (s *Service) GetSVNCommands(c *fiber.Ctx) error {
	a, err := assignmentctl.Get(s.db, c.Params("shortid"))
	if err != nil {
		return handler.Error(c, err)
	}

	commands, err := assignmentctl.SVNExportCommands(s.db, a, s.cfg.Webserver.RepositoryBaseURL)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(fiber.Map{"commands": commands})
}

// PostCloneFrom copies the groupings and group policy of the source
// assignment onto this assignment.
func (s *Service) PostCloneFrom(c *fiber.Ctx) error {
	target, err := assignmentctl.Get(s.db, c.Params("shortid"))
	if err != nil {
		return handler.Error(c, err)
	}

	source, err := assignmentctl.Get(s.db, c.Params("sourceid"))
	if err != nil {
		return handler.Error(c, err)
	}

	if err := groupingctl.CloneGroupingsFrom(s.db, source, target); err != nil {
		log.Error().Err(err).
			Str("source", source.ShortIdentifier).
			Str("target", target.ShortIdentifier).
			Msg("failed to clone groupings")

		return handler.Error(c, err)
	}

	log.Info().
		Str("source", source.ShortIdentifier).
		Str("target", target.ShortIdentifier).
		Msg("groupings cloned")

	return c.JSON(target)
}
