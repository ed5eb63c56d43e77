package show

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rhettg/sysinfo/internal/config"
	"github.com/rhettg/sysinfo/internal/sysinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	err := Print(&buf, sysinfo.Report{Platform: "Linux", VCSType: "Exported", CFlags: "N/A"}, FormatTable)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "FACT")
	assert.Contains(t, out, "platform")
	assert.Contains(t, out, "Linux")
	assert.Contains(t, out, "Exported")
	assert.Contains(t, out, "N/A")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	err := Print(&buf, sysinfo.Report{Arch: "x86_64", Is64Bit: true}, FormatJSON)
	require.NoError(t, err)

	var r sysinfo.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &r))
	assert.Equal(t, "x86_64", r.Arch)
	assert.True(t, r.Is64Bit)
}

func TestPrintUnknownFormat(t *testing.T) {
	err := Print(&bytes.Buffer{}, sysinfo.Report{}, "yaml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestDoShowLocal(t *testing.T) {
	root := t.TempDir()
	svn := filepath.Join(root, ".svn")
	require.NoError(t, os.MkdirAll(svn, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(svn, "entries"), []byte("10\n\ndir\n4321\n"), 0o644))

	conf := &config.Config{Root: root, ScriptsRoot: root, SVNNode: sysinfo.DefaultSVNNode, Facts: sysinfo.ModeProbe}

	var buf bytes.Buffer
	require.NoError(t, DoShow(context.Background(), &buf, conf, "", FormatJSON))

	var r sysinfo.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &r))
	assert.Equal(t, "SVN", r.VCSType)
	assert.Equal(t, "4321", r.SourceRevision)
	assert.Equal(t, "4321", r.ScriptsRevision)
}

func TestDoShowRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":  "remote",
			"facts": sysinfo.Report{Platform: "Remote OS", VCSType: "Git"},
		})
	}))
	defer server.Close()

	var buf bytes.Buffer
	require.NoError(t, DoShow(context.Background(), &buf, nil, server.URL, FormatTable))
	assert.Contains(t, buf.String(), "Remote OS")
}
