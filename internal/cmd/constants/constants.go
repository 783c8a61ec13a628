// Package constants holds the names shared by the tonematch commands.
package constants

// Output formats accepted by -o/--format.
const (
	FormatTable = "table"
	FormatWide  = "wide" // table with extra columns
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Shells supported by the completion command.
const (
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellFish       = "fish"
	ShellPowerShell = "powershell"
)

// Command groups shown in the root help.
const (
	GroupCore       = "core"
	GroupManagement = "management"
)
