package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/ingest"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/service"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/storage"
)

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Ingest documents from the docs directory",
	Long: `Ingest every document in the docs directory (or the given directory)
into the chunk store and the vector index. Existing chunks are kept;
use reindex for a full rebuild.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex [dir]",
	Short: "Drop all chunks and rebuild the index from scratch",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReindex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(reindexCmd)
}

func docsDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.DocsDir
}

func strategy() ingest.Strategy {
	if useOCR {
		return ingest.StrategyOCR
	}
	return ingest.StrategyText
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pipeline, store, cleanup, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	dir := docsDir(args)
	docs, err := ingest.LoadDirectory(dir)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Printf("No documents found in %s\n", dir)
		return nil
	}

	bar := newBar(len(docs), "Indexing")

	var indexed, skipped int
	for _, doc := range docs {
		if err := pipeline.IngestDocument(ctx, doc, strategy()); err != nil {
			if errors.Is(err, service.ErrExtraction) {
				skipped++
				_ = bar.Add(1)
				continue
			}
			return err
		}
		indexed++
		_ = bar.Add(1)
	}

	fmt.Printf("\nIndexing complete:\n")
	fmt.Printf("  Documents indexed: %d\n", indexed)
	fmt.Printf("  Documents skipped: %d (extraction failed)\n", skipped)
	printChunkTotal(ctx, store)
	return nil
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pipeline, store, cleanup, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	dir := docsDir(args)
	docs, err := ingest.LoadDirectory(dir)
	if err != nil {
		return err
	}

	fmt.Printf("Rebuilding index from %d documents in %s...\n", len(docs), dir)

	result, err := pipeline.Reindex(ctx, docs, strategy())
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	fmt.Printf("\nReindex complete:\n")
	fmt.Printf("  Documents indexed: %d\n", result.Indexed)
	fmt.Printf("  Documents skipped: %d (extraction failed)\n", result.Skipped)
	printChunkTotal(ctx, store)
	return nil
}

func printChunkTotal(ctx context.Context, store storage.ChunkStore) {
	total, err := store.Count(ctx)
	if err != nil {
		return
	}
	fmt.Printf("  Chunks stored: %d\n", total)
}

func newBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}
