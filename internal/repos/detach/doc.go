// Package detach removes forks from their upstream fork network and then makes them private.
//
// A fork that fails to detach is not privatized. GitHub refuses to privatize
// public forks, so that failure is reported as an unsupported operation along
// with the manual steps needed to replace the repository.
package detach
