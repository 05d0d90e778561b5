package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [--env name] [--] <command> [args...]",
		Short: "Run a command inside an activated virtual environment",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			env, _ := cmd.Flags().GetString("env")

			code, err := c.components.App.Run(cmd.Context(), env, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if code != 0 {
				return &ExitError{Code: code}
			}
			return nil
		},
	}
	cmd.Flags().StringP("env", "e", "", "Environment to activate (defaults to the default environment)")
	cmd.Flags().SetInterspersed(false)
	return cmd
}
