package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"calc/internal/domain"
)

func themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the colour theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				switch args[0] {
				case "toggle":
					appWire.Theme.Toggle(ctx)
				default:
					t, ok := domain.ParseTheme(args[0])
					if !ok {
						return fmt.Errorf("unknown theme %q (want light, dark or toggle)", args[0])
					}
					appWire.Theme.Set(ctx, t)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), appWire.Theme.Current())
			return nil
		},
	}
}
