package cli

import (
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/config"
)

var (
	cfg    *config.Config
	useOCR bool
)

var rootCmd = &cobra.Command{
	Use:   "indexer",
	Short: "Index curriculum documents for retrieval",
	Long: `indexer ingests curriculum documents into the chunk store and the
vector index used by the question-answering API.

Example usage:
  indexer index            # Ingest new documents from the docs directory
  indexer reindex          # Drop everything and rebuild from scratch
  indexer index --ocr      # Use vision extraction for scanned documents`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})
		slog.SetDefault(slog.New(handler))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&useOCR, "ocr", false, "use vision extraction instead of direct text extraction")
}
