package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/drc/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BindingRenderer renders registry bindings and update outcomes
type BindingRenderer struct {
	out  io.Writer
	json bool
	now  func() time.Time
}

// NewBindingRenderer creates a new binding renderer
func NewBindingRenderer(out io.Writer, json bool) *BindingRenderer {
	return &BindingRenderer{out: out, json: json, now: time.Now}
}

// Render prints a single binding
func (r *BindingRenderer) Render(b domain.Binding) error {
	if r.json {
		return WriteJSON(r.out, b)
	}

	fmt.Fprintln(r.out, domainStyle.Sprint(b.Domain))
	if !b.IsRegistered() {
		fmt.Fprintln(r.out, timestampStyle.Sprint("  not registered"))
		return nil
	}

	fmt.Fprintf(r.out, "  %-10s %s\n", labelStyle.Sprint("Dapp:"), addressStyle.Sprint(b.DappAddress.Hex()))
	fmt.Fprintf(r.out, "  %-10s %s\n", labelStyle.Sprint("Admin:"), addressStyle.Sprint(b.Admin.Hex()))
	fmt.Fprintf(r.out, "  %-10s %s\n", labelStyle.Sprint("Updated:"), timestampStyle.Sprint(formatTime(b.UpdatedAt)))

	if p := b.PendingTransition; p != nil {
		fmt.Fprintln(r.out, pendingStyle.Sprint("\n  Pending transition"))
		fmt.Fprintf(r.out, "  %-10s %s\n", labelStyle.Sprint("Proposed:"), p.ProposedAddress.Hex())
		fmt.Fprintf(r.out, "  %-10s %s\n", labelStyle.Sprint("Proposer:"), p.Proposer.Hex())
		fmt.Fprintf(r.out, "  %-10s %s\n", labelStyle.Sprint("Recorded:"), formatTime(p.RecordedAt))
	}
	return nil
}

// RenderList prints bindings as a table
func (r *BindingRenderer) RenderList(bindings []*domain.Binding) error {
	if r.json {
		return WriteJSON(r.out, bindings)
	}
	if len(bindings) == 0 {
		fmt.Fprintln(r.out, "No bindings found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"Domain", "Dapp", "Admin", "Pending", "Updated"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft},
	})

	for _, b := range bindings {
		pending := "-"
		if b.PendingTransition != nil {
			pending = pendingStyle.Sprint(formatAddress(b.PendingTransition.ProposedAddress))
		}
		t.AppendRow(table.Row{
			b.Domain,
			formatAddress(b.DappAddress),
			formatAddress(b.Admin),
			pending,
			timestampStyle.Sprint(formatTime(b.UpdatedAt)),
		})
	}
	t.Render()
	return nil
}

// RenderOutcome prints the result of an update request
func (r *BindingRenderer) RenderOutcome(outcome *domain.UpdateOutcome) error {
	if r.json {
		return WriteJSON(r.out, outcome)
	}

	kind := cases.Title(language.English).String(strings.ToLower(string(outcome.Kind)))
	switch outcome.Kind {
	case domain.OutcomeCommitted:
		fmt.Fprintln(r.out, FormatSuccess(kind))
	case domain.OutcomeRecorded:
		fmt.Fprintln(r.out, pendingStyle.Sprintf("⏳ %s", kind))
	default:
		reason := strings.ReplaceAll(strings.ToLower(string(outcome.Reason)), "_", " ")
		fmt.Fprintln(r.out, invalidStyle.Sprintf("❌ %s: %s", kind, reason))
	}

	if outcome.CooldownEndsAt != nil {
		fmt.Fprintf(r.out, "  %s %s (%s)\n",
			labelStyle.Sprint("Cooldown ends:"),
			formatTime(*outcome.CooldownEndsAt),
			formatUntil(*outcome.CooldownEndsAt, r.now()),
		)
	}
	fmt.Fprintln(r.out)
	return r.Render(outcome.Binding)
}

var _ Renderer[domain.Binding] = (*BindingRenderer)(nil)
