package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/coursemark/coursemark/internal/db/controller/assignment"
	"github.com/coursemark/coursemark/internal/db/controller/grouping"
	"github.com/coursemark/coursemark/internal/db/controller/importer"
	"github.com/coursemark/coursemark/internal/submissionrule"
)

// StatusFromError maps controller errors to http status codes.
func StatusFromError(err error) int {
	var usersNotFound *importer.UsersNotFoundError

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, assignment.ErrDuplicateShortID),
		errors.Is(err, grouping.ErrDuplicateGrouping),
		errors.Is(err, grouping.ErrAlreadyGrouped),
		errors.Is(err, grouping.ErrInviterExists),
		errors.Is(err, grouping.ErrAlreadyAssigned),
		errors.Is(err, grouping.ErrGroupingFull),
		errors.Is(err, grouping.ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, assignment.ErrMissingShortID),
		errors.Is(err, assignment.ErrMissingRepositoryFolder),
		errors.Is(err, assignment.ErrInvalidGroupSize),
		errors.Is(err, assignment.ErrInvalidDueDate),
		errors.Is(err, grouping.ErrMissingName),
		errors.Is(err, grouping.ErrStudentsOnly),
		errors.Is(err, grouping.ErrNotTeachingAssistant),
		errors.Is(err, importer.ErrRowTooShort),
		errors.Is(err, submissionrule.ErrUnknownRuleType):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &usersNotFound):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// Error writes the error as a json body with the mapped status code.
func Error(c *fiber.Ctx, err error) error {
	return c.Status(StatusFromError(err)).JSON(fiber.Map{"error": err.Error()})
}
