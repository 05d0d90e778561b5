package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <package...>",
		Short: "Install packages into a virtual environment",
		Long: "Install packages into a virtual environment, creating it when it does not exist.\n" +
			"Packages whose binary install fails are retried from source and then one by one.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _ := cmd.Flags().GetString("env")
			report, err := c.components.App.Install(cmd.Context(), env, args)
			if err != nil {
				return err
			}
			return c.render(cmd, report)
		},
	}
	cmd.Flags().StringP("env", "e", "", "Target environment (defaults to the default environment)")
	return cmd
}

func (c *CLI) newUninstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall <package...>",
		Short: "Uninstall packages from a virtual environment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _ := cmd.Flags().GetString("env")
			report, err := c.components.App.Uninstall(cmd.Context(), env, args)
			if err != nil {
				return err
			}
			return c.render(cmd, report)
		},
	}
	cmd.Flags().StringP("env", "e", "", "Target environment (defaults to the default environment)")
	return cmd
}

func (c *CLI) newPackagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packages",
		Short: "List the packages installed in a virtual environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, _ := cmd.Flags().GetString("env")
			report, err := c.components.App.Packages(cmd.Context(), env)
			if err != nil {
				return err
			}
			return c.render(cmd, report)
		},
	}
	cmd.Flags().StringP("env", "e", "", "Target environment (defaults to the default environment)")
	return cmd
}
