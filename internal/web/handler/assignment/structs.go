package assignment

import "time"

// ruleRequest carries the submission rule parameters of a request.
type ruleRequest struct {
	Type          string  `json:"type" validate:"required"`
	Hours         float64 `json:"hours" validate:"gte=0"`
	IntervalHours float64 `json:"interval_hours" validate:"gte=0"`
	Deduction     float64 `json:"deduction" validate:"gte=0"`
}

// criterionRequest carries one rubric criterion of a create request.
type criterionRequest struct {
	Title    string  `json:"title" validate:"required"`
	Weight   float64 `json:"weight" validate:"gte=0"`
	Position int     `json:"position" validate:"gte=0"`
}

// createRequest is the body of the assignment create endpoint.
type createRequest struct {
	ShortIdentifier        string             `json:"short_identifier" validate:"required"`
	Description            string             `json:"description"`
	DueDate                time.Time          `json:"due_date" validate:"required"`
	GroupMin               int                `json:"group_min" validate:"required,gte=1"`
	GroupMax               int                `json:"group_max" validate:"required,gte=1"`
	RepositoryFolder       string             `json:"repository_folder" validate:"required"`
	InstructorFormGroups   bool               `json:"instructor_form_groups"`
	GroupNameAutogenerated bool               `json:"group_name_autogenerated"`
	GroupNameDisplayed     bool               `json:"group_name_displayed"`
	Rule                   ruleRequest        `json:"rule" validate:"required"`
	Criteria               []criterionRequest `json:"criteria" validate:"dive"`
}

// dueDateRequest is the body of the due date endpoint.
type dueDateRequest struct {
	DueDate time.Time `json:"due_date" validate:"required"`
}
