package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmark/internal/ui/pretty"
)

// Command group IDs shown in the root help.
const (
	groupEdit    = "edit"
	groupInspect = "inspect"
)

func commandGroups() []*cobra.Group {
	return []*cobra.Group{
		{ID: groupEdit, Title: "Editing Commands:"},
		{ID: groupInspect, Title: "Inspecting Commands:"},
	}
}

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Alias       lipgloss.Style
	Dim         lipgloss.Style

	// Mark renders ==...== spans inside examples.
	Mark lipgloss.Style
}

// NewHelpStyles derives help styles from the output palette so help and
// command output share colors.
func NewHelpStyles(styles *pretty.Styles) *HelpStyles {
	return &HelpStyles{
		Command:     styles.FilePath,
		Heading:     styles.Warning,
		Subcommand:  styles.Success,
		Flag:        styles.Location,
		Description: styles.Message,
		Example:     styles.Dim,
		Alias:       styles.Dim,
		Dim:         styles.Dim,
		Mark:        styles.Highlight,
	}
}

// HelpFormatter provides styled help output for Cobra commands.
type HelpFormatter struct {
	styles *HelpStyles
	width  int
}

// NewHelpFormatter creates a help formatter for writer. Flag descriptions
// wrap at the terminal width when writer is a terminal.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	colorEnabled := pretty.IsColorEnabled(colorMode, writer)
	return &HelpFormatter{
		styles: NewHelpStyles(pretty.NewStyles(colorEnabled)),
		width:  terminalWidth(writer),
	}
}

func (h *HelpFormatter) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"styleCommand":            h.styles.Command.Render,
		"styleHeading":            h.styles.Heading.Render,
		"styleSubcommand":         h.styles.Subcommand.Render,
		"styleDescription":        h.styles.Description.Render,
		"styleExample":            h.styleExample,
		"styleAlias":              h.styles.Alias.Render,
		"styleDim":                h.styles.Dim.Render,
		"styleFlagsUsage":         h.styleFlagsUsage,
		"rpad":                    rpad,
		"join":                    strings.Join,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
	}
}

const usageTemplate = `{{ styleHeading "Usage:" }}
  {{if .Runnable}}{{ styleCommand .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ styleCommand .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ styleHeading "Aliases:" }}
  {{ styleAlias (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ styleHeading "Examples:" }}
{{ styleExample .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}{{ $cmds := .Commands }}
{{- range $group := .Groups}}

{{ styleHeading $group.Title }}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{ styleSubcommand (rpad .Name .NamePadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}
{{- if not .AllChildCommandsHaveGroup}}

{{ styleHeading "Additional Commands:" }}{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{ styleSubcommand (rpad .Name .NamePadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ styleFlagsUsage .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ styleFlagsUsage .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{if or .Runnable .HasSubCommands}}{{ styleCommand .CommandPath }}{{if .Version}} {{ styleDim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ . | trimTrailingWhitespaces }}

{{end}}` + usageTemplate

// wrapperPattern finds ==...== spans on one line.
var wrapperPattern = regexp.MustCompile(`==[^=\n]+==`)

// styleExample dims example lines and renders ==...== spans as marks.
func (h *HelpFormatter) styleExample(example string) string {
	lines := strings.Split(example, "\n")
	for i, line := range lines {
		var b strings.Builder
		last := 0
		for _, loc := range wrapperPattern.FindAllStringIndex(line, -1) {
			b.WriteString(h.styles.Example.Render(line[last:loc[0]]))
			b.WriteString(h.styles.Mark.Render(line[loc[0]:loc[1]]))
			last = loc[1]
		}
		b.WriteString(h.styles.Example.Render(line[last:]))
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// styleFlagsUsage formats the usage of a pflag set, wrapped to the
// terminal width when one is known.
func (h *HelpFormatter) styleFlagsUsage(flags interface{ FlagUsagesWrapped(int) string }) string {
	usages := strings.TrimSuffix(flags.FlagUsagesWrapped(h.width), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine styles one "  -f, --flag type   description" line.
// Continuation lines of a wrapped description are left as they are.
func (h *HelpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if !strings.HasPrefix(trimmed, "-") {
		return line
	}

	flagPart, descPart, ok := splitFlagLine(trimmed)
	if !ok {
		return line
	}

	indent := line[:len(line)-len(trimmed)]
	gap := trimmed[len(flagPart) : len(trimmed)-len(descPart)]
	return indent + h.styleFlagPart(flagPart) + gap + h.styles.Description.Render(descPart)
}

// splitFlagLine splits at the first run of two or more spaces.
func splitFlagLine(line string) (flagPart, descPart string, ok bool) {
	idx := strings.Index(line, "  ")
	if idx < 0 {
		return "", "", false
	}
	rest := strings.TrimLeft(line[idx:], " ")
	if rest == "" {
		return "", "", false
	}
	return line[:idx], rest, true
}

// styleFlagPart colors flag names and dims the value type.
func (h *HelpFormatter) styleFlagPart(flagPart string) string {
	tokens := strings.Fields(flagPart)
	for i, token := range tokens {
		if !strings.HasPrefix(token, "-") {
			tokens[i] = h.styles.Dim.Render(token)
			continue
		}
		if clean, found := strings.CutSuffix(token, ","); found {
			tokens[i] = h.styles.Flag.Render(clean) + ","
			continue
		}
		tokens[i] = h.styles.Flag.Render(token)
	}
	return strings.Join(tokens, " ")
}

// ApplyToCommand applies styled help templates to a Cobra command and all subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.templateFuncs()

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		tmpl, err := template.New("usage").Funcs(funcs).Parse(usageTemplate)
		if err != nil {
			return fmt.Errorf("parse usage template: %w", err)
		}
		return tmpl.Execute(command.OutOrStderr(), command)
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		tmpl, err := template.New("help").Funcs(funcs).Parse(helpTemplate)
		if err != nil {
			command.PrintErrln(err)
			return
		}
		if err := tmpl.Execute(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
