package models

import "time"

// Group represents a named set of students sharing one version-control
// repository. A group exists independently of assignments; it is bound to an
// assignment through a Grouping, and the same group may be reused by
// groupings of different assignments (cloning relies on this).
type Group struct {
	// ID is the unique identifier for the group.
	ID uint `gorm:"primaryKey"`
	// GroupName is the globally unique display name of the group.
	GroupName string `gorm:"unique;size:100;not null"`
	// RepoName is the name of the group's repository.
	RepoName string `gorm:"size:255"`
	// RepositoryAdmin indicates the repository name is system-managed.
	// Imports must not rename a system-managed repository. No column
	// default: a zero-valued field with a default tag would be dropped
	// from the INSERT and come back flipped.
	RepositoryAdmin bool
	// CreatedAt is the timestamp when the group was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the group was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Group model.
// This overrides GORM's default pluralized table naming.
func (Group) TableName() string {
	return "groups"
}

// RepositoryExternalAccessURL returns the externally reachable URL of the
// group repository under the given base URL.
func (g *Group) RepositoryExternalAccessURL(baseURL string) string {
	if baseURL == "" {
		return g.RepoName
	}

	return baseURL + "/" + g.RepoName
}
