package system

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoot() *cobra.Command {
	root := &cobra.Command{Use: "stgeorge", Short: "St. George hospital backend"}
	root.AddCommand(NewSystemCommand())
	return root
}

func TestGenDocs(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{docsMarkdown, []string{"stgeorge.md", "stgeorge_system.md", "stgeorge_system_gendocs.md"}},
		{docsMan, []string{"stgeorge.1", "stgeorge-system.1", "stgeorge-system-seed.1"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := t.TempDir()
			root := newRoot()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"system", "gendocs", "--format", tt.format, "--outdir", dir})

			require.NoError(t, root.Execute())
			for _, name := range tt.want {
				assert.FileExists(t, filepath.Join(dir, name))
			}
			assert.Contains(t, out.String(), tt.format+" pages written to "+dir)
		})
	}
}

func TestGenDocs_ManHeader(t *testing.T) {
	dir := t.TempDir()
	_, err := writeDocs(newRoot(), docsMan, dir)
	require.NoError(t, err)

	page, err := os.ReadFile(filepath.Join(dir, "stgeorge.1"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "STGEORGE")
	assert.Contains(t, string(page), "St. George Hospital Manual")
}

func TestGenDocs_UnknownFormat(t *testing.T) {
	_, err := writeDocs(newRoot(), "html", t.TempDir())
	assert.ErrorContains(t, err, `unknown docs format "html"`)
}
