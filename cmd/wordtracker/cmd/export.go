package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
	"github.com/Aman-CERP/wordtracker/internal/output"
	"github.com/Aman-CERP/wordtracker/internal/repository"
	"github.com/Aman-CERP/wordtracker/internal/words"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.json]",
		Short: "Write the repository as a JSON document",
		Long: `Write every word and its occurrences as JSON. Without a file, or with "-",
the document goes to stdout. Import it elsewhere with 'wordtracker import'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "-"
			if len(args) == 1 {
				target = args[0]
			}
			return runExport(cmd, a, target)
		},
	}
}

func runExport(cmd *cobra.Command, a *app, target string) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	idx, err := a.newTracker(cfg, nil).Index(cmd.Context())
	if err != nil {
		return err
	}

	if target == "-" {
		return repository.ExportJSON(cmd.OutOrStdout(), idx.Snapshot())
	}

	f, err := os.Create(target)
	if err != nil {
		return apperrors.IOError("failed to create export file", err).WithDetail("path", target)
	}
	if err := repository.ExportJSON(f, idx.Snapshot()); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return apperrors.IOError("failed to write export file", err).WithDetail("path", target)
	}

	if !a.quiet {
		output.New(cmd.OutOrStdout(), a.noColor).Successf("Exported %d words to %s", idx.Len(), target)
	}
	return nil
}

func newImportCmd(a *app) *cobra.Command {
	var merge bool

	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Load a JSON export into the repository",
		Long: `Replace the repository contents with a document written by 'wordtracker
export'. With --merge the imported occurrences are added to the existing
ones instead. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, a, args[0], merge)
		},
	}

	cmd.Flags().BoolVar(&merge, "merge", false, "Add to the existing words instead of replacing them")

	return cmd
}

func runImport(cmd *cobra.Command, a *app, source string, merge bool) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if source != "-" {
		f, err := os.Open(source)
		if err != nil {
			if os.IsNotExist(err) {
				return apperrors.New(apperrors.ErrCodeFileNotFound, "import file not found", err).
					WithDetail("path", source)
			}
			return apperrors.IOError("failed to open import file", err).WithDetail("path", source)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	snap, err := repository.ImportJSON(r)
	if err != nil {
		return err
	}
	// Validate the whole document before the repository is touched.
	if _, err := words.FromSnapshot(snap, 0); err != nil {
		return err
	}

	var total int
	err = a.newTracker(cfg, nil).Update(cmd.Context(), func(idx *words.Index) error {
		if !merge {
			idx.Clear()
		}
		for _, rec := range snap.Words {
			for _, fl := range rec.Files {
				for _, line := range fl.Lines {
					if _, err := idx.Record(rec.Text, fl.File, line); err != nil {
						return err
					}
				}
			}
		}
		total = idx.Len()
		return nil
	})
	if err != nil {
		return err
	}

	if !a.quiet {
		output.New(cmd.OutOrStdout(), a.noColor).
			Successf("Imported %d words from %s (%d in repository)", len(snap.Words), source, total)
	}
	return nil
}
