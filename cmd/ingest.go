package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docsearch/internal/config"
	"github.com/ziadkadry99/docsearch/internal/normalize"
	"github.com/ziadkadry99/docsearch/internal/progress"
	"github.com/ziadkadry99/docsearch/internal/retrieval"
	"github.com/ziadkadry99/docsearch/internal/walker"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [paths...]",
	Short: "Index documents from files and directories",
	Long: `Reads text and markdown documents, categorizes them and adds them to the
index. Directories are walked recursively using the include and exclude
patterns from the config file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

// ingestFile is one document queued for ingestion.
type ingestFile struct {
	path string // on disk
	name string // stored filename
}

func runIngest(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store == config.StoreMemory {
		fmt.Fprintln(os.Stderr, "Warning: store is memory; ingested documents are discarded on exit.")
	}

	files, err := collectFiles(cfg, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No documents found to ingest.")
		return nil
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Found %d documents to ingest\n", len(files))
	}

	pipeline, store, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	reporter := progress.NewReporter()
	reporter.Start(len(files))
	failed := ingestAll(ctx, pipeline, files, reporter)
	reporter.Finish()

	fmt.Printf("Ingested %d of %d documents in %s\n", len(files)-failed, len(files), time.Since(start).Round(time.Millisecond))
	if failed > 0 {
		return fmt.Errorf("%d document(s) failed to ingest", failed)
	}
	return nil
}

// collectFiles expands args into files. Directories are walked with the
// configured include and exclude patterns; files are taken as given.
func collectFiles(cfg *config.Config, args []string) ([]ingestFile, error) {
	var files []ingestFile
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, ingestFile{path: arg, name: filepath.Base(arg)})
			continue
		}

		found, err := walker.Walk(walker.WalkerConfig{
			RootDir: arg,
			Include: cfg.Include,
			Exclude: cfg.Exclude,
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
		for _, f := range found {
			files = append(files, ingestFile{path: f.Path, name: f.RelPath})
		}
	}
	return files, nil
}

// ingestAll ingests files in order and returns the number that failed.
// Failures are reported and do not stop the run.
func ingestAll(ctx context.Context, p *retrieval.Pipeline, files []ingestFile, reporter progress.Reporter) int {
	failed := 0
	for i, f := range files {
		reporter.Update(i, f.name)
		if err := ingestOne(ctx, p, f); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", f.name, err)
			failed++
			continue
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Indexed %s\n", f.name)
		}
	}
	reporter.Update(len(files), "done")
	return failed
}

func ingestOne(ctx context.Context, p *retrieval.Pipeline, f ingestFile) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}
	content, err := normalize.Text(f.name, data)
	if err != nil {
		return err
	}
	_, err = p.Ingest(ctx, f.name, content)
	return err
}
