// Package commands implements the transportapp command line. With no
// sub-command it starts the terminal UI.
package commands
