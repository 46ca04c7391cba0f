// Package githubapi talks to the GitHub REST and GraphQL APIs on behalf of forksweep.
//
// Client owns the authenticated HTTP connection shared by the go-github REST
// client and the githubv4 GraphQL client. It lists the authenticated user's
// repositories, deletes repositories, makes them private, and detaches forks
// from their fork network. Failures are reported as OperationError values that
// carry the HTTP status code and an ErrorCategory so callers never need to
// inspect message text.
package githubapi
