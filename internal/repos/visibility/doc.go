// Package visibility makes the authenticated user's public repositories private.
package visibility
