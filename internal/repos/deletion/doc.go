// Package deletion removes every fork owned by the authenticated GitHub user after a typed confirmation.
//
// Deletion is irreversible. Permission failures are collected separately so the
// run summary can point at the missing delete_repo token scope.
package deletion
