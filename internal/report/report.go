// Package report renders step results and the closing usage banner.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/hbjs97/multi-setup/internal/bootstrap"
	"github.com/hbjs97/multi-setup/internal/doctor"
)

// usage lists the commands the installed tool offers.
var usage = [][2]string{
	{"start <branch>", "create a worktree and tmux session for branch"},
	{"switch <branch>", "attach to the session of branch"},
	{"list", "show active worktrees and sessions"},
	{"cleanup <branch>", "remove the worktree and session of branch"},
	{"help", "show all commands"},
}

// Renderer writes styled output. Styles collapse to plain text when the
// writer is not a terminal or NO_COLOR is set.
type Renderer struct {
	w     io.Writer
	ok    lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
	muted lipgloss.Style
	bold  lipgloss.Style
}

// NewRenderer creates a Renderer for w.
func NewRenderer(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	if !colorEnabled(w) {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		w:     w,
		ok:    r.NewStyle().Foreground(lipgloss.Color("2")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("3")),
		fail:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		muted: r.NewStyle().Faint(true),
		bold:  r.NewStyle().Bold(true),
	}
}

func colorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func (r *Renderer) icon(s doctor.Status) string {
	switch s {
	case doctor.StatusOK:
		return r.ok.Render("✓")
	case doctor.StatusWarn:
		return r.warn.Render("!")
	case doctor.StatusFail:
		return r.fail.Render("✗")
	default:
		return r.muted.Render("-")
	}
}

// Results prints one line per result plus its fix hint, if any.
func (r *Renderer) Results(results []doctor.DiagResult) {
	for _, res := range results {
		fmt.Fprintf(r.w, "  %s %s: %s\n", r.icon(res.Status), res.Name, res.Message)
		if res.Fix != "" {
			fmt.Fprintf(r.w, "      %s %s\n", r.muted.Render("fix:"), res.Fix)
		}
	}
}

// Summary counts results by status.
func Summary(results []doctor.DiagResult) map[doctor.Status]int {
	counts := make(map[doctor.Status]int)
	for _, res := range results {
		counts[res.Status]++
	}
	return counts
}

// Banner prints the completion message and the usage of the installed
// command.
func (r *Renderer) Banner(rep *bootstrap.Report, name string) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.bold.Render("Setup complete."))
	if rep.PathChanged && rep.ConfigFile != "" {
		fmt.Fprintf(r.w, "Run %s or open a new terminal to update PATH.\n",
			r.bold.Render("source "+rep.ConfigFile))
	}
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "Usage:")
	for _, u := range usage {
		cmd := fmt.Sprintf("%s %s", name, u[0])
		fmt.Fprintf(r.w, "  %-24s %s\n", cmd, r.muted.Render(u[1]))
	}
}
