package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.trai.ch/warren/internal/adapters/detector"
	"go.trai.ch/warren/internal/core/domain"
	"go.trai.ch/warren/internal/ui/output"
	"go.trai.ch/warren/internal/ui/style"
	"go.trai.ch/zerr"
)

// render writes report in the format selected by the flags and the output stream.
// Reports that did not fully succeed turn into an ExitError after rendering.
func (c *CLI) render(cmd *cobra.Command, report *domain.Report) error {
	w := cmd.OutOrStdout()

	jsonFlag, _ := cmd.Flags().GetBool("json")
	outputFlag, _ := cmd.Flags().GetString("output")
	format := detector.ResolveFormat(detector.DetectFormat(w), jsonFlag, outputFlag)

	var err error
	if format == detector.FormatJSON {
		err = writeJSON(w, report)
	} else {
		err = c.writeTable(w, report)
	}
	if err != nil {
		return err
	}

	switch report.Status {
	case domain.StatusError, domain.StatusPartial, domain.StatusConfirmationRequired:
		return &ExitError{Code: 1}
	default:
		return nil
	}
}

func writeJSON(w io.Writer, report *domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return zerr.Wrap(err, "failed to encode report")
	}
	return nil
}

func (c *CLI) writeTable(w io.Writer, report *domain.Report) error {
	out := output.New(w)

	icon, color := style.StatusIcon(report.Status)
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", output.Paint(out, icon, string(color)), report.Message)

	defaultEnv := c.components.App.DefaultEnv()

	switch {
	case len(report.Environments) > 0:
		b.WriteString(environmentTable(report.Environments))
		b.WriteString("\n")
	case len(report.Names) > 0:
		for _, name := range report.Names {
			marker := " "
			if name == defaultEnv {
				marker = output.Paint(out, "*", string(style.Iris))
			}
			fmt.Fprintf(&b, "  %s %s\n", marker, name)
		}
	case len(report.Packages) > 0:
		for _, p := range report.Packages {
			pIcon, pColor := style.PackageIcon(p.Status)
			line := fmt.Sprintf("  %s %s", output.Paint(out, pIcon, string(pColor)), p.Package)
			if p.Version != "" {
				line += " " + p.Version
			}
			if p.Status != domain.PackageSuccess {
				line += " " + output.Paint(out, "("+string(p.Status)+")", string(style.Slate))
			}
			b.WriteString(line + "\n")
		}
		if report.Tier != "" {
			fmt.Fprintf(&b, "  %s\n", output.Paint(out, "tier: "+string(report.Tier), string(style.Slate)))
		}
	case len(report.Installed) > 0:
		b.WriteString(packageTable(report.Installed))
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return zerr.Wrap(err, "failed to write report")
	}
	return nil
}

func environmentTable(envs []domain.Environment) string {
	rows := make([][]string, 0, len(envs))
	for _, e := range envs {
		name := e.Name
		if e.IsDefault {
			name += " *"
		}
		version := e.InterpreterVersion
		if version == "" {
			version = "-"
		}
		rows = append(rows, []string{name, version, strconv.Itoa(e.PackageCount), e.Description})
	}

	return newTable().
		Headers("NAME", "PYTHON", "PACKAGES", "DESCRIPTION").
		Rows(rows...).
		String()
}

func packageTable(installed map[string]string) string {
	names := make([]string, 0, len(installed))
	for name := range installed {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, installed[name]})
	}

	return newTable().
		Headers("PACKAGE", "VERSION").
		Rows(rows...).
		String()
}

func newTable() *table.Table {
	header := lipgloss.NewStyle().Bold(true).Foreground(style.Iris).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(style.Slate)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}
