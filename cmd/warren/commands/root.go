// Package commands implements the CLI commands for the warren environment manager.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/warren/internal/app"
	"go.trai.ch/warren/internal/build"
)

// CLI represents the command line interface for warren.
type CLI struct {
	components *app.Components
	rootCmd    *cobra.Command
}

// New creates a new CLI instance with the given components.
func New(c *app.Components) *CLI {
	rootCmd := &cobra.Command{
		Use:           "warren",
		Short:         "Manage isolated Python virtual environments",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("json", false, "Print reports as JSON")
	rootCmd.PersistentFlags().StringP("output", "o", "auto", "Output format: auto, table or json")

	cli := &CLI{
		components: c,
		rootCmd:    rootCmd,
	}

	rootCmd.AddCommand(cli.newCreateCmd())
	rootCmd.AddCommand(cli.newDeleteCmd())
	rootCmd.AddCommand(cli.newListCmd())
	rootCmd.AddCommand(cli.newDescribeCmd())
	rootCmd.AddCommand(cli.newInstallCmd())
	rootCmd.AddCommand(cli.newUninstallCmd())
	rootCmd.AddCommand(cli.newPackagesCmd())
	rootCmd.AddCommand(cli.newRunCmd())
	rootCmd.AddCommand(cli.newServeCmd())
	rootCmd.AddCommand(cli.newVersionCmd())

	return cli
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetIO replaces the command streams. Used for testing and by the tool server.
func (c *CLI) SetIO(in io.Reader, out, errOut io.Writer) {
	c.rootCmd.SetIn(in)
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}
