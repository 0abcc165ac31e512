package render

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/trebuchet-org/drc/internal/domain"
)

// VerdictRenderer renders validation verdicts
type VerdictRenderer struct {
	out  io.Writer
	json bool
}

// NewVerdictRenderer creates a new verdict renderer
func NewVerdictRenderer(out io.Writer, json bool) *VerdictRenderer {
	return &VerdictRenderer{out: out, json: json}
}

// Render prints a verdict
func (r *VerdictRenderer) Render(verdict *domain.Verdict) error {
	if r.json {
		return WriteJSON(r.out, verdict)
	}

	if verdict.Valid {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s is valid", verdict.Domain)))
	} else {
		fmt.Fprintln(r.out, invalidStyle.Sprintf("❌ %s is not valid", verdict.Domain))
	}

	fmt.Fprintf(r.out, "  %s %d declared, %d checked\n", labelStyle.Sprint("Manifest:"), verdict.Declared, verdict.Checked)
	if verdict.Declared == 0 {
		fmt.Fprintf(r.out, "  %s\n", pendingStyle.Sprint("manifest declares no contracts"))
	}
	if verdict.Rejected != nil {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Not allow-listed:"), addressStyle.Sprint(verdict.Rejected.Hex()))
	}
	if verdict.JobID != "" {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Job:"), timestampStyle.Sprint(verdict.JobID))
	}
	return nil
}

var _ Renderer[*domain.Verdict] = (*VerdictRenderer)(nil)

// StartSpinner shows a spinner with message until the returned stop is called
func StartSpinner(out io.Writer, message string) (stop func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.Suffix = " " + message
	_ = s.Color("cyan", "bold")
	s.Start()
	return s.Stop
}
