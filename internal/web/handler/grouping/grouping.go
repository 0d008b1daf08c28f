// Package grouping provides handlers for group formation and the invitation
// lifecycle.
package grouping

import (
	"errors"

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

// Service is the grouping handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the grouping handler.
var Handler = Service{}

// Init initializes the grouping handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app, cfg, or db is nil")
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	// register routes
	app.Route("/assignments/:shortid", func(router fiber.Router) {
		router.Post("/groupings", s.PostGrouping)
		router.Post("/groupings/solo", s.PostSoloGroupings)
		router.Get("/groupings", s.GetGroupings)
		router.Get("/ungrouped-students", s.GetUngroupedStudents)
	})

	app.Route("/groupings/:id", func(router fiber.Router) {
		router.Post("/invitations", s.PostInvitation)
		router.Get("/invitable-students", s.GetInvitableStudents)
		router.Post("/tas", s.PostTA)
	})

	app.Route("/memberships/:id", func(router fiber.Router) {
		router.Post("/accept", s.PostAccept)
		router.Post("/reject", s.PostReject)
	})

	return nil
}

// PostGrouping creates a group for the assignment and binds it through a new
// grouping. The group name is ignored when the assignment autogenerates names.
func (s *Service) PostGrouping(c *fiber.Ctx) error {
	req := new(createGroupRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	a, err := assignmentctl.Get(s.db, c.Params("shortid"))
	if err != nil {
		return handler.Error(c, err)
	}

	g, err := groupingctl.CreateGroup(s.db, a, req.GroupName)
	if err != nil {
		log.Error().Err(err).Str("short_identifier", a.ShortIdentifier).Msg("failed to create group")
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(g)
}

// PostSoloGroupings bootstraps one grouping per ungrouped student.
func (s *Service) PostSoloGroupings(c *fiber.Ctx) error {
	a, err := assignmentctl.Get(s.db, c.Params("shortid"))
	if err != nil {
		return handler.Error(c, err)
	}

	created, err := groupingctl.CreateSoloGroupings(s.db, a)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("short_identifier", a.ShortIdentifier).Int("created", created).Msg("solo groupings created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"created": created})
}

// GetGroupings lists the groupings of the assignment, optionally partitioned
// by validity or TA assignment.
func (s *Service) GetGroupings(c *fiber.Ctx) error {
	a, err := assignmentctl.Get(s.db, c.Params("shortid"))
	if err != nil {
		return handler.Error(c, err)
	}

	var groupings []models.Grouping

	switch {
	case c.Query("validity") == "valid":
		groupings, err = groupingctl.ValidGroupings(s.db, a)
	case c.Query("validity") == "invalid":
		groupings, err = groupingctl.InvalidGroupings(s.db, a)
	case c.Query("ta") == "assigned":
		groupings, err = groupingctl.AssignedGroupings(s.db, a)
	case c.Query("ta") == "unassigned":
		groupings, err = groupingctl.UnassignedGroupings(s.db, a)
	default:
		err = s.db.Where("assignment_id = ?", a.ID).Find(&groupings).Error
	}

	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(groupings)
}

// GetUngroupedStudents lists the visible students without a confirmed spot in
// any grouping of the assignment.
func (s *Service) GetUngroupedStudents(c *fiber.Ctx) error {
	a, err := assignmentctl.Get(s.db, c.Params("shortid"))
	if err != nil {
		return handler.Error(c, err)
	}

	students, err := groupingctl.UngroupedStudents(s.db, a)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(students)
}

// PostInvitation invites a student into the grouping, as inviter when the
// request says so, as a pending invite otherwise.
func (s *Service) PostInvitation(c *fiber.Ctx) error {
	req := new(invitationRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	g, err := s.loadGrouping(c)
	if err != nil {
		return handler.Error(c, err)
	}

	var student models.User
	if err := s.db.Where("username = ?", req.Username).First(&student).Error; err != nil {
		return handler.Error(c, err)
	}

	m, err := groupingctl.InviteMember(s.db, g, &student, req.Inviter)
	if err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("failed to invite member")
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(m)
}

// GetInvitableStudents lists the students still invitable into the grouping.
func (s *Service) GetInvitableStudents(c *fiber.Ctx) error {
	g, err := s.loadGrouping(c)
	if err != nil {
		return handler.Error(c, err)
	}

	students, err := groupingctl.InvitableStudents(s.db, g)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(students)
}

// PostTA adds a grader to the grouping.
func (s *Service) PostTA(c *fiber.Ctx) error {
	req := new(taRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	g, err := s.loadGrouping(c)
	if err != nil {
		return handler.Error(c, err)
	}

	var ta models.User
	if err := s.db.Where("username = ?", req.Username).First(&ta).Error; err != nil {
		return handler.Error(c, err)
	}

	m, err := groupingctl.AssignTA(s.db, g, &ta)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(m)
}

// PostAccept confirms a pending invitation.
func (s *Service) PostAccept(c *fiber.Ctx) error {
	return s.transition(c, groupingctl.Accept)
}

// PostReject declines a pending invitation.
func (s *Service) PostReject(c *fiber.Ctx) error {
	return s.transition(c, groupingctl.Reject)
}

func (s *Service) transition(c *fiber.Ctx, fn func(*gorm.DB, *models.Membership) error) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var m models.Membership
	if err := s.db.First(&m, id).Error; err != nil {
		return handler.Error(c, err)
	}

	if err := fn(s.db, &m); err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(m)
}

func (s *Service) loadGrouping(c *fiber.Ctx) (*models.Grouping, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, err
	}

	var g models.Grouping
	if err := s.db.First(&g, id).Error; err != nil {
		return nil, err
	}

	return &g, nil
}
