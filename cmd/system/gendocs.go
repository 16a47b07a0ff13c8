package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// Output formats understood by gendocs.
const (
	docsMarkdown = "markdown"
	docsMan      = "man"
)

func NewGenDocsCommand() *cobra.Command {
	var format, outDir string

	cmd := &cobra.Command{
		Use:   "gendocs",
		Short: "Write reference docs for the stgeorge CLI",
		Long: `Write one page per stgeorge command, as Markdown (docs/cli) or as
section 1 man pages (docs/man). --outdir overrides the target directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = filepath.Join("docs", "cli")
				if format == docsMan {
					outDir = filepath.Join("docs", "man")
				}
			}
			dir, err := filepath.Abs(outDir)
			if err != nil {
				return fmt.Errorf("resolve %q: %w", outDir, err)
			}

			n, err := writeDocs(cmd.Root(), format, dir)
			if err != nil {
				return err
			}
			cmd.Printf("%d %s pages written to %s\n", n, format, dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", docsMarkdown, "page format: markdown or man")
	cmd.Flags().StringVar(&outDir, "outdir", "", "target directory (default docs/cli or docs/man)")

	return cmd
}

// writeDocs renders the tree under root into dir and returns the number of
// files it holds afterwards.
func writeDocs(root *cobra.Command, format, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create %s: %w", dir, err)
	}

	root.DisableAutoGenTag = true

	switch format {
	case docsMarkdown:
		if err := doc.GenMarkdownTree(root, dir); err != nil {
			return 0, fmt.Errorf("markdown docs: %w", err)
		}
	case docsMan:
		header := &doc.GenManHeader{Title: "STGEORGE", Section: "1", Manual: "St. George Hospital Manual"}
		if err := doc.GenManTree(root, header, dir); err != nil {
			return 0, fmt.Errorf("man pages: %w", err)
		}
	default:
		return 0, fmt.Errorf("unknown docs format %q (want %s or %s)", format, docsMarkdown, docsMan)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
