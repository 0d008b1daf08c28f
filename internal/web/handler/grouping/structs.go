package grouping

// createGroupRequest is the body of the group creation endpoint.
type createGroupRequest struct {
	GroupName string `json:"group_name"`
}

// invitationRequest is the body of the invitation endpoint.
type invitationRequest struct {
	Username string `json:"username" validate:"required"`
	Inviter  bool   `json:"inviter"`
}

// taRequest is the body of the TA assignment endpoint.
type taRequest struct {
	Username string `json:"username" validate:"required"`
}
