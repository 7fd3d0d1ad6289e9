// Package utils provides small presentation helpers shared by the CLI and
// the server.
package utils
