package sysbackup

import (
	"embed"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/david-TxRxSystems/scripts/pkg/cobrax/topics"
)

//go:embed help
var helpFS embed.FS

// initHelpTopics wires the embedded markdown topics into the help
// command, so `sysbackup help layout` works anywhere the binary does.
func initHelpTopics(rootCmd *cobra.Command) {
	sub, err := fs.Sub(helpFS, "help")
	if err != nil {
		return
	}

	opts := topics.Options{
		Extensions: []string{".md", ".txt"},
		Renderer:   &topics.GlamourRenderer{},
	}
	if err := topics.InitializeWithOptions(rootCmd, sub, opts); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}
}
