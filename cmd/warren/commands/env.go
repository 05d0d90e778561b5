package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a virtual environment",
		Long: "Create a virtual environment. Without a name the default environment is created.\n" +
			"Creating an environment that already exists is reported and leaves it untouched.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			python, _ := cmd.Flags().GetString("python")
			report, err := c.components.App.Create(cmd.Context(), firstArg(args), python)
			if err != nil {
				return err
			}
			return c.render(cmd, report)
		},
	}
	cmd.Flags().StringP("python", "p", "", "Interpreter version (e.g. 3.12) or interpreter command")
	return cmd
}

func (c *CLI) newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete [name]",
		Aliases: []string{"rm"},
		Short:   "Delete a virtual environment",
		Long:    "Delete a virtual environment and its metadata. The default environment requires --force.",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			report, err := c.components.App.Delete(cmd.Context(), firstArg(args), force)
			if err != nil {
				return err
			}
			return c.render(cmd, report)
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Confirm deletion of the default environment")
	return cmd
}

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List virtual environments",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			details, _ := cmd.Flags().GetBool("details")

			report, err := c.components.App.List(cmd.Context())
			if details {
				report, err = c.components.App.Details(cmd.Context())
			}
			if err != nil {
				return err
			}
			return c.render(cmd, report)
		},
	}
	cmd.Flags().BoolP("details", "l", false, "Include interpreter version, package count and description")
	return cmd
}

func (c *CLI) newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <name> <description...>",
		Short: "Set the description of a virtual environment",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := c.components.App.Describe(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return c.render(cmd, report)
		},
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
