package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/abmeta/internal/domain"
	"github.com/kailas-cloud/abmeta/internal/usecase/mapping"
)

func newMapCmd(c *cli) *cobra.Command {
	var diagnostics bool

	cmd := &cobra.Command{
		Use:   "map <document.json>",
		Short: "Map an AcousticBrainz JSON document without storing it",
		Long: `Map a merged AcousticBrainz document with the configured scheme and
print the resulting attributes as name=value lines. Use "-" to read
from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			mapper, err := buildMapper(c.cfg.Scheme)
			if err != nil {
				return err
			}

			rec := &mapping.Recorder{}
			out := cmd.OutOrStdout()
			for _, attr := range mapper.Map(doc, rec) {
				_, _ = fmt.Fprintf(out, "%s=%s\n", attr.Name, attr.String())
			}

			if diagnostics {
				errOut := cmd.ErrOrStderr()
				for _, d := range rec.Diagnostics {
					_, _ = fmt.Fprintf(errOut, "%s\t%s\t%s\n", d.Kind, d.Path, d.Key)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&diagnostics, "diagnostics", "d", false, "print skipped scheme paths to stderr")
	return cmd
}

func readDocument(stdin io.Reader, path string) (domain.Document, error) {
	if path == "-" {
		return domain.DecodeDocument(stdin)
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := domain.DecodeDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func newSchemeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "scheme",
		Short: "List the attributes the configured scheme produces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mapper, err := buildMapper(c.cfg.Scheme)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range mapper.Scheme().Targets() {
				_, _ = fmt.Fprintln(out, name)
			}
			_, _ = fmt.Fprintf(out, "composite policy: %s\n", mapper.Policy())
			return nil
		},
	}
}
