// Package console renders the interactive command-line surface: styled
// status lines, summary panels, overwrite confirmation prompts, progress
// spinners and rule diffs.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Console writes styled output to a single destination, normally stdout.
type Console struct {
	out   io.Writer
	quiet bool
}

func New(out io.Writer) *Console {
	return &Console{out: out}
}

// Default writes to stdout.
func Default() *Console {
	return New(os.Stdout)
}

// SetQuiet suppresses informational output; warnings and errors still print.
func (c *Console) SetQuiet(quiet bool) {
	c.quiet = quiet
}

// Header prints a bordered title line with an optional subtitle.
func (c *Console) Header(title, subtitle string) {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.out, StyleHeader.Render(title))
	if subtitle != "" {
		fmt.Fprintln(c.out, StyleSubtitle.Render(subtitle))
	}
	fmt.Fprintln(c.out)
}

// Stepf prints a numbered step banner.
func (c *Console) Stepf(step, total int, format string, args ...any) {
	if c.quiet {
		return
	}
	label := fmt.Sprintf("[%d/%d]", step, total)
	fmt.Fprintf(c.out, "%s %s\n",
		StyleTitle.Render(label),
		fmt.Sprintf(format, args...))
}

func (c *Console) Infof(format string, args ...any) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, "  %s\n", fmt.Sprintf(format, args...))
}

func (c *Console) Successf(format string, args ...any) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.out, "%s %s\n",
		StyleStatusGood.Render("✓"),
		fmt.Sprintf(format, args...))
}

func (c *Console) Warnf(format string, args ...any) {
	fmt.Fprintf(c.out, "%s %s\n",
		StyleStatusWarn.Render("!"),
		fmt.Sprintf(format, args...))
}

func (c *Console) Errorf(format string, args ...any) {
	fmt.Fprintf(c.out, "%s %s\n",
		StyleStatusBad.Render("✗"),
		fmt.Sprintf(format, args...))
}

// Summary prints aligned key/value pairs inside a rounded card.
func (c *Console) Summary(title string, pairs [][2]string) {
	if c.quiet {
		return
	}
	width := 0
	for _, kv := range pairs {
		if len(kv[0]) > width {
			width = len(kv[0])
		}
	}
	var b strings.Builder
	if title != "" {
		b.WriteString(StyleTitle.Render(title))
		b.WriteString("\n")
	}
	for i, kv := range pairs {
		if i > 0 {
			b.WriteString("\n")
		}
		key := fmt.Sprintf("%-*s", width, kv[0])
		b.WriteString(StyleKey.Render(key))
		b.WriteString("  ")
		b.WriteString(StyleValue.Render(kv[1]))
	}
	fmt.Fprintln(c.out, StyleCard.Render(b.String()))
}

// Diff prints a unified diff with per-line coloring.
func (c *Console) Diff(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(c.out, StyleDiffAdd.Render(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(c.out, StyleDiffRemove.Render(line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprintln(c.out, StyleDiffHunk.Render(line))
		default:
			fmt.Fprintln(c.out, StyleMuted.Render(line))
		}
	}
}

// IsInteractive reports whether stdin is a terminal. Piped input or CI runs
// must never block on a prompt.
func IsInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Confirm asks a yes/no question and returns the answer. The default is
// preselected so Enter alone accepts it.
func Confirm(title, description string, def bool) (bool, error) {
	answer := def
	confirm := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)

	form := huh.NewForm(huh.NewGroup(confirm)).WithTheme(huh.ThemeBase16())
	if err := form.Run(); err != nil {
		return false, err
	}
	return answer, nil
}

// WithSpinner runs fn behind a spinner when stdout is a terminal, plainly
// otherwise.
func (c *Console) WithSpinner(title string, fn func() error) error {
	if !IsInteractive() {
		c.Infof("%s...", title)
		return fn()
	}
	var fnErr error
	err := spinner.New().
		Title(title).
		Style(lipgloss.NewStyle().Foreground(ColorSlate)).
		Action(func() { fnErr = fn() }).
		Run()
	if err != nil {
		return err
	}
	return fnErr
}
