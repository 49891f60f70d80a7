package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AutobookNft/NATAN-LOC-sub001/internal/model"
	"github.com/AutobookNft/NATAN-LOC-sub001/internal/pipeline"
	"github.com/AutobookNft/NATAN-LOC-sub001/internal/retrieve"
)

var (
	corpusPath   string
	tenantID     string
	persona      string
	queryModel   string
	queryTimeout time.Duration
	minScore     float64
	limit        int
	noCache      bool
	llmProvider  string
	llmModel     string
	embProvider  string
	embModel     string
	outJSON      string
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Answer one question against the tenant corpus with claim gating",
	Long: `Query runs the full decision pipeline for a single question:
- Classify intent and confidence from literal phrase patterns
- Gate the query (proceed, answer directly, or block)
- Retrieve ranked evidence from the tenant corpus
- Generate an answer with atomic, citing claims
- Score every claim and block the unreliable ones

Example:
  natan query "Quando è stata fondata la società?" --tenant acme --corpus corpus.json
  natan query "Is it true that the contract expired?" --tenant acme --corpus corpus.json --llm-provider anthropic`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	// Corpus and scoping flags
	queryCmd.Flags().StringVar(&corpusPath, "corpus", "corpus.json", "corpus snapshot file (chunks with embeddings)")
	queryCmd.Flags().StringVar(&tenantID, "tenant", "", "tenant identifier (required)")
	queryCmd.Flags().StringVar(&persona, "persona", "", "persona hint for model selection")
	queryCmd.Flags().StringVar(&queryModel, "model", "", "explicit model override")
	_ = queryCmd.MarkFlagRequired("tenant")

	// Retrieval flags
	queryCmd.Flags().Float64Var(&minScore, "min-score", 0.3, "minimum cosine similarity for evidence")
	queryCmd.Flags().IntVar(&limit, "limit", 8, "maximum evidence chunks")

	// Runtime flags
	queryCmd.Flags().DurationVar(&queryTimeout, "timeout", 2*time.Minute, "overall query timeout")
	queryCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
	queryCmd.Flags().StringVar(&outJSON, "json", "", "write the full result JSON to this path")

	// Provider flags
	queryCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "generation provider (openai, anthropic, ollama)")
	queryCmd.Flags().StringVar(&llmModel, "llm-model", "", "generation model name")
	queryCmd.Flags().StringVar(&embProvider, "embedding-provider", "openai", "embedding provider (openai, ollama)")
	queryCmd.Flags().StringVar(&embModel, "embedding-model", "", "embedding model name")
}

func runQuery(cmd *cobra.Command, args []string) error {
	question := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	store, err := retrieve.LoadCorpus(corpusPath)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	p := pipeline.NewPipeline(cfg, store, newLogger())

	if verbose {
		fmt.Fprintf(os.Stderr, "Tenant: %s\n", tenantID)
		fmt.Fprintf(os.Stderr, "Corpus: %s\n", corpusPath)
		fmt.Fprintln(os.Stderr)
	}

	result, err := p.ProcessQuery(ctx, pipeline.Request{
		Question: question,
		TenantID: tenantID,
		Persona:  persona,
		Model:    queryModel,
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	renderResult(result)

	if outJSON != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		if err := os.WriteFile(outJSON, data, 0644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}

	return nil
}

// configFromViper layers the config file and NATAN_* environment values
// over the built-in defaults. This is where the model-selection policy
// rules come from.
func configFromViper() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("read configuration: %w", err)
	}
	return cfg, nil
}

// buildConfig assembles the runtime configuration: defaults, then config
// file and environment values, then explicit flag overrides, plus API keys
// from the environment. A flag left at its default never clobbers a config
// file value.
func buildConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := configFromViper()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("min-score") {
		cfg.Retrieval.MinScore = minScore
	}
	if flags.Changed("limit") {
		cfg.Retrieval.Limit = limit
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	cfg.Output.Verbose = verbose

	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if flags.Changed("embedding-provider") {
		cfg.Embedding.Provider = embProvider
	}
	if embModel != "" {
		cfg.Embedding.Model = embModel
	}

	if err := fillAPIKey(&cfg.LLM.APIKey, &cfg.LLM.BaseURL, cfg.LLM.Provider); err != nil {
		return nil, err
	}
	if err := fillAPIKey(&cfg.Embedding.APIKey, &cfg.Embedding.BaseURL, cfg.Embedding.Provider); err != nil {
		return nil, err
	}

	return cfg, nil
}

// fillAPIKey pulls the provider credential from the environment.
func fillAPIKey(apiKey, baseURL *string, provider string) error {
	switch provider {
	case "openai":
		*apiKey = os.Getenv("OPENAI_API_KEY")
		if *apiKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		*apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if *apiKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if url := os.Getenv("OLLAMA_BASE_URL"); url != "" {
			*baseURL = url
		}
	}
	return nil
}

// newLogger builds the slog logger the pipeline uses. Verbose mode turns
// on debug output.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// renderResult prints a compact summary to stdout.
func renderResult(result *model.QueryResult) {
	fmt.Printf("Status:        %s\n", result.Status)
	fmt.Printf("Verification:  %s\n", result.VerificationStatus)
	if result.Reason != "" {
		fmt.Printf("Reason:        %s\n", result.Reason)
	}
	if result.ModelUsed != "" {
		fmt.Printf("Model:         %s\n", result.ModelUsed)
	}
	fmt.Printf("Claims:        %d verified, %d blocked (avg URS %.2f)\n",
		len(result.VerifiedClaims), len(result.BlockedClaims), result.AvgURS)

	if result.Answer != "" {
		fmt.Printf("\n%s\n", result.Answer)
	}

	if len(result.VerifiedClaims) > 0 {
		fmt.Println("\nVerified claims:")
		for _, claim := range result.VerifiedClaims {
			fmt.Printf("  [%s %.2f] %s\n", claim.Label, claim.URSScore, claim.Claim.Text)
			for _, ref := range claim.SourceRefs {
				if ref.URL != "" {
					fmt.Printf("        → %s\n", ref.URL)
				}
			}
		}
	}

	if len(result.BlockedClaims) > 0 {
		fmt.Println("\nBlocked claims:")
		for _, claim := range result.BlockedClaims {
			fmt.Printf("  [%s %.2f] %s (%s)\n", claim.Label, claim.URSScore, claim.Claim.Text, claim.Reason)
		}
	}
}
