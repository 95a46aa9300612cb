package sysbackup

// Short messages (one-liners)
const (
	MsgRootShort = "Snapshot and restore a workstation's state"

	MsgRootLong = `sysbackup captures the state of a Debian-based desktop into a plain
directory tree: apt package selections, flatpak and snap applications,
dconf desktop settings, dotfiles, and a configurable set of home
directories. The same tree replays onto a fresh machine with one
command.

The backup root defaults to ~/system-backup and can be moved with
--root, the SYSBACKUP_ROOT environment variable, or the config file.`

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Show every step without executing anything"
	MsgFlagRoot    = "Backup root directory (overrides env and config)"
	MsgFlagFormat  = "Output format: auto, term, or text"

	// Error messages
	MsgErrNoCommand = "no command specified"
)

// Backup command messages
const (
	MsgBackupShort = "Capture the system state into the backup root"

	MsgBackupLong = `Backup captures the machine's state into the backup root: apt package
selections, flatpak and snap application lists, the full dconf settings
dump, configured dotfiles, and configured directories (mirrored with
rsync). Informational lists of python packages, npm packages, and
enabled user services are captured as well.

Artifacts whose source does not exist are skipped with a notice.
Re-running overwrites previous artifacts in place.`

	MsgBackupExample = `  # Back up into the default root (~/system-backup)
  sysbackup backup

  # Back up into a mounted drive
  sysbackup backup --root /media/usb/laptop

  # See every step without writing anything
  sysbackup backup --dry-run`
)

// Restore command messages
const (
	MsgRestoreShort = "Replay a backup root onto this system"

	MsgRestoreLong = `Restore replays a backup root onto the live system: package indices are
refreshed, the captured apt selections are declared and applied, flatpak
and snap applications are reinstalled one by one, desktop settings are
loaded, and dotfiles and directories are copied back (overwriting what
is there).

Missing artifacts are skipped with a warning. Directories marked secure
get owner-only permissions after they are restored. See
'sysbackup help restore-order' for the exact ordering rules.`

	MsgRestoreExample = `  # Restore from the default root
  sysbackup restore

  # Restore from a mounted drive
  sysbackup restore --root /media/usb/laptop

  # See what would be replayed
  sysbackup restore --dry-run`
)

// Genconfig command messages
const (
	MsgGenconfigShort = "Print a starting config file with defaults commented out"

	MsgGenconfigLong = `Genconfig prints the built-in default configuration with every value
commented out. Redirect it, or pass --write to save it as
~/.config/sysbackup/config.toml (an existing file is never
overwritten). Uncomment and edit the lines you want to change.`

	MsgFlagWrite = "Write the file to the user config path instead of printing it"
)

// Version and completion command messages
const (
	MsgVersionShort = "Print version information"
	MsgVersionLong  = `Print detailed version information including commit hash and build date`

	MsgCompletionShort = "Generate shell completion script"
	MsgCompletionLong  = `To load completions:

Bash:
  $ source <(sysbackup completion bash)
  # To load completions for each session, execute once:
  $ sysbackup completion bash > /etc/bash_completion.d/sysbackup

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ sysbackup completion zsh > "${fpath[1]}/_sysbackup"

Fish:
  $ sysbackup completion fish | source
  # To load completions for each session, execute once:
  $ sysbackup completion fish > ~/.config/fish/completions/sysbackup.fish

PowerShell:
  PS> sysbackup completion powershell | Out-String | Invoke-Expression
`
)

// MsgUsageTemplate is the cobra usage template with section headers
// run through the bold template function.
const MsgUsageTemplate = `{{bold "Usage:"}}{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{bold "Aliases:"}}
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{bold "Examples:"}}
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

{{bold "Available Commands:"}}{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{bold .Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

{{bold "Additional Commands:"}}{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{bold "Flags:"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{bold "Global Flags:"}}
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.
Use "{{.CommandPath}} help topics" to list further documentation.{{end}}
`
