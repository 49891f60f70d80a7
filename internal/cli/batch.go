package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/AutobookNft/NATAN-LOC-sub001/internal/pipeline"
	"github.com/AutobookNft/NATAN-LOC-sub001/internal/retrieve"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Process multiple questions from a file in parallel",
	Long: `Batch processes multiple questions concurrently:
- Read questions from input file (one per line, # starts a comment)
- Process questions in parallel with configurable worker count
- Every question runs the full classify/route/retrieve/verify pipeline
- Write one result JSON per question

Example:
  natan batch questions.txt --tenant acme --corpus corpus.json
  natan batch questions.txt --tenant acme --concurrency 8 --output-dir ./results`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./natan-results", "output directory for result files")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Shared pipeline flags
	batchCmd.Flags().StringVar(&corpusPath, "corpus", "corpus.json", "corpus snapshot file (chunks with embeddings)")
	batchCmd.Flags().StringVar(&tenantID, "tenant", "", "tenant identifier (required)")
	batchCmd.Flags().StringVar(&persona, "persona", "", "persona hint for model selection")
	batchCmd.Flags().Float64Var(&minScore, "min-score", 0.3, "minimum cosine similarity for evidence")
	batchCmd.Flags().IntVar(&limit, "limit", 8, "maximum evidence chunks")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "generation provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "generation model name")
	batchCmd.Flags().StringVar(&embProvider, "embedding-provider", "openai", "embedding provider (openai, ollama)")
	batchCmd.Flags().StringVar(&embModel, "embedding-model", "", "embedding model name")
	_ = batchCmd.MarkFlagRequired("tenant")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	questions, err := pipeline.ReadQuestions(file)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return fmt.Errorf("no questions in %s", file)
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Concurrency.BatchWorkers = concurrency

	store, err := retrieve.LoadCorpus(corpusPath)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Processing %d questions with %d workers\n", len(questions), concurrency)

	p := pipeline.NewPipeline(cfg, store, newLogger())
	processor := pipeline.NewBatchProcessor(p, concurrency)

	requests := make([]pipeline.Request, 0, len(questions))
	for _, q := range questions {
		requests = append(requests, pipeline.Request{
			Question: q,
			TenantID: tenantID,
			Persona:  persona,
		})
	}

	outcomes := processor.ProcessQuestions(ctx, requests)

	failed := 0
	for i, outcome := range outcomes {
		if outcome.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", outcome.Question, outcome.Error)
			continue
		}

		path := filepath.Join(outputDir, fmt.Sprintf("result-%03d.json", i+1))
		data, err := json.MarshalIndent(outcome.Result, "", "  ")
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: marshal: %v\n", outcome.Question, err)
			continue
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: write: %v\n", outcome.Question, err)
			continue
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s → %s (%s)\n", outcome.Question, path, outcome.Result.VerificationStatus)
		}
	}

	fmt.Fprintf(os.Stderr, "Done: %d ok, %d failed\n", len(outcomes)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d questions failed", failed, len(outcomes))
	}
	return nil
}
