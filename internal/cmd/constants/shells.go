// Package constants provides shared constants for CLI commands.
package constants

// Shells with completion support.
const (
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellFish       = "fish"
	ShellPowerShell = "powershell"
)

// Shells lists the completion shells in help order.
var Shells = []string{ShellBash, ShellZsh, ShellFish, ShellPowerShell}
