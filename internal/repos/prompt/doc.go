// Package prompt reads typed confirmation phrases from an interactive console.
package prompt
