// Package sysbackup is the command-line surface: the root command, the
// backup and restore subcommands, and the wiring that turns resolved
// configuration into an executed run.
package sysbackup

import (
	"github.com/spf13/cobra"

	"github.com/david-TxRxSystems/scripts/internal/version"
	"github.com/david-TxRxSystems/scripts/pkg/errors"
	"github.com/david-TxRxSystems/scripts/pkg/logging"
)

var log = logging.GetLogger("cmd")

// globalOptions holds the persistent flag values shared by every
// subcommand.
type globalOptions struct {
	verbosity int
	dryRun    bool
	root      string
	format    string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "sysbackup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.Setup(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// A bare `sysbackup --dry-run` is accepted and does no
			// capture or apply work; a bare `sysbackup` is a usage
			// error.
			_ = cmd.Help()
			if opts.dryRun {
				return nil
			}
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&opts.root, "root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "auto", MsgFlagFormat)

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Set custom usage template
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Add all commands
	rootCmd.AddCommand(newBackupCmd(opts))
	rootCmd.AddCommand(newRestoreCmd(opts))
	rootCmd.AddCommand(newGenconfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Initialize topic-based help system from the embedded topics
	initHelpTopics(rootCmd)

	return rootCmd
}
