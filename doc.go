// Package main provides the entry point for the coursemark service.
// It initializes and runs a web server using the Fiber framework that lets
// instructors manage assignment groups, invitations, submission rules, bulk
// imports, and released grade statistics through a REST API. The application
// uses gorm for data persistence.
package main
