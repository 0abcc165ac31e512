package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/drc/internal/domain"
)

const (
	testAddrA = "0x1111111111111111111111111111111111111111"
	testAddrB = "0x2222222222222222222222222222222222222222"
	testAdmin = "0x3333333333333333333333333333333333333333"
	testRival = "0x4444444444444444444444444444444444444444"
)

// run executes the root command with args and returns what it printed
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if cmd.PersistentPostRun != nil {
		cmd.PersistentPostRun(cmd, nil)
	}
	return out.String(), err
}

func TestRootCmd_Commands(t *testing.T) {
	cmd := NewRootCmd()

	names := make(map[string]string)
	for _, c := range cmd.Commands() {
		names[c.Name()] = c.GroupID
	}

	tests := []struct {
		name  string
		group string
	}{
		{"validate", "main"},
		{"update", "main"},
		{"show", "main"},
		{"list", "main"},
		{"allowlist", "management"},
		{"serve", "management"},
		{"job", "management"},
		{"version", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, ok := names[tt.name]
			require.True(t, ok, "command %s not registered", tt.name)
			assert.Equal(t, tt.group, group)
		})
	}
}

func TestVersionCmd(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "drc version dev\n", out)
}

func TestUpdateCmd_RequiresCaller(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := run(t, "update", "x.com", testAddrA)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "caller")
}

func TestAllowListCmd_FileBackend(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := run(t, "allowlist", "add", testAddrA, testAddrB)
	require.NoError(t, err)
	assert.Contains(t, out, testAddrA)

	_, err = os.Stat(filepath.Join(dir, ".drc", "allowlist.json"))
	require.NoError(t, err)

	out, err = run(t, "--json", "allowlist", "check", testAddrB)
	require.NoError(t, err)
	var check map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &check))
	assert.Equal(t, true, check["allowListed"])

	out, err = run(t, "--json", "allowlist", "list")
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Len(t, entries, 2)
}

func TestAllowListCmd_Import(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	file := filepath.Join(dir, "approved.yaml")
	require.NoError(t, os.WriteFile(file, []byte("addresses:\n  - "+testAddrA+"\n"), 0644))

	_, err := run(t, "allowlist", "import", file)
	require.NoError(t, err)

	out, err := run(t, "--json", "allowlist", "check", testAddrA)
	require.NoError(t, err)
	assert.Contains(t, out, `"allowListed": true`)
}

func TestShowCmd_Unregistered(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "--json", "show", "Nobody.net")
	require.NoError(t, err)

	var b map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, "nobody.net", b["domain"])
}

func TestJobCmd_InvalidRequest(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(`{"id":"7","data":{"drcAddress":"` + testAddrA + `"}}`))
	cmd.SetArgs([]string{"job"})
	require.NoError(t, cmd.Execute())
	cmd.PersistentPostRun(cmd, nil)

	var resp struct {
		Status int `json:"status"`
		Body   struct {
			JobRunID string `json:"jobRunID"`
			Status   string `json:"status"`
		} `json:"body"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, 400, resp.Status)
	assert.Equal(t, "7", resp.Body.JobRunID)
	assert.Equal(t, "errored", resp.Body.Status)
}

func TestUpdateCmd_RegistryFlow(t *testing.T) {
	t.Chdir(t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"contractAddress":"` + testAddrA + `"}]`))
	}))
	t.Cleanup(srv.Close)
	host := srv.Listener.Addr().String()

	_, err := run(t, "allowlist", "add", testAddrA)
	require.NoError(t, err)

	out, err := run(t, "--json", "--manifest-scheme", "http", "update", host, testAddrA, "--caller", testAdmin)
	require.NoError(t, err)
	var outcome domain.UpdateOutcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.Equal(t, domain.OutcomeCommitted, outcome.Kind)

	// a rival records a pending transition, then resubmits inside the cooldown
	out, err = run(t, "--json", "--manifest-scheme", "http", "update", host, testAddrB, "--caller", testRival)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.Equal(t, domain.OutcomeRecorded, outcome.Kind)

	out, err = run(t, "--json", "--manifest-scheme", "http", "update", host, testAddrB, "--caller", testRival)
	assert.ErrorIs(t, err, domain.ErrCooldownNotElapsed)
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.Equal(t, domain.RejectCooldownNotElapsed, outcome.Reason)

	out, err = run(t, "--json", "show", host)
	require.NoError(t, err)
	var b domain.Binding
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, testAddrA, b.DappAddress.Hex())
	assert.Equal(t, testAdmin, b.Admin.Hex())
	require.NotNil(t, b.PendingTransition)
	assert.Equal(t, testRival, b.PendingTransition.Proposer.Hex())
}
