package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func evalCmd() *cobra.Command {
	var noHistory bool
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression",
		Long: `Evaluates the expression and prints the result. Arguments are joined
with spaces, so quoting is optional for expressions without shell
metacharacters. Display symbols (×, ÷, π) are accepted.

On failure "Error" is printed and the exit status is 1.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")
			result, err := appWire.Calculator.EvaluateString(cmd.Context(), raw, !noHistory)
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return err
		},
	}
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record the evaluation")
	return cmd
}
