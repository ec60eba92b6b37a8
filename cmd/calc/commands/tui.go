package commands

import (
	"github.com/spf13/cobra"

	"calc/internal/ui"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "tui",
		Short:       "Start the interactive calculator",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipPreload: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ui.Run(cmd.Context(), appWire)
		},
	}
}
