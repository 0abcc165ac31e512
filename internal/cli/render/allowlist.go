package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/drc/internal/domain"
	"github.com/trebuchet-org/drc/internal/usecase"
)

// AllowListRenderer renders allow-list administration results
type AllowListRenderer struct {
	out  io.Writer
	json bool
}

// NewAllowListRenderer creates a new allowlist renderer
func NewAllowListRenderer(out io.Writer, json bool) *AllowListRenderer {
	return &AllowListRenderer{out: out, json: json}
}

// RenderAdded prints the results of an add or import
func (r *AllowListRenderer) RenderAdded(results []*usecase.AllowListAddResult) error {
	if r.json {
		return WriteJSON(r.out, results)
	}
	for _, res := range results {
		switch {
		case res.AlreadyPresent:
			fmt.Fprintf(r.out, "%s %s\n", timestampStyle.Sprint("="), addressStyle.Sprintf("%s already allow-listed", res.Address.Hex()))
		case res.TxHash != "":
			fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s submitted in %s", res.Address.Hex(), res.TxHash)))
		default:
			fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s allow-listed", res.Address.Hex())))
		}
	}
	return nil
}

// RenderCheck prints a membership check
func (r *AllowListRenderer) RenderCheck(addr common.Address, ok bool) error {
	if r.json {
		return WriteJSON(r.out, map[string]any{"address": addr, "allowListed": ok})
	}
	if ok {
		fmt.Fprintln(r.out, validStyle.Sprintf("✓ %s is allow-listed", addr.Hex()))
	} else {
		fmt.Fprintln(r.out, invalidStyle.Sprintf("✗ %s is not allow-listed", addr.Hex()))
	}
	return nil
}

// RenderList prints every allow-list entry
func (r *AllowListRenderer) RenderList(entries []domain.AllowListEntry) error {
	if r.json {
		return WriteJSON(r.out, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "Allowlist is empty")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.AppendHeader(table.Row{"#", "Address", "Added"})
	for i, e := range entries {
		t.AppendRow(table.Row{i + 1, e.Address.Hex(), timestampStyle.Sprint(formatTime(e.AddedAt))})
	}
	t.Render()
	return nil
}
