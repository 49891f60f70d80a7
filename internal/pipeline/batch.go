package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/AutobookNft/NATAN-LOC-sub001/internal/model"
	"github.com/AutobookNft/NATAN-LOC-sub001/internal/worker"
)

// QueryProcessor is the slice of the pipeline the batch runner needs.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, req Request) (*model.QueryResult, error)
}

// QueryJob processes one question through the pipeline.
type QueryJob struct {
	Request   Request
	Processor QueryProcessor
}

// Execute runs the query job.
func (j *QueryJob) Execute(ctx context.Context) worker.Result {
	result, err := j.Processor.ProcessQuery(ctx, j.Request)
	return &QueryOutcome{
		Question: j.Request.Question,
		Result:   result,
		Error:    err,
	}
}

// QueryOutcome is the result of one batch query.
type QueryOutcome struct {
	Question string
	Result   *model.QueryResult
	Error    error
}

// GetError returns the error from the query outcome.
func (o *QueryOutcome) GetError() error {
	return o.Error
}

// BatchProcessor runs many questions through one pipeline concurrently.
// Requests share no mutable state, so parallelism is bounded only by the
// worker count and the provider rate limits.
type BatchProcessor struct {
	processor   QueryProcessor
	concurrency int
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(processor QueryProcessor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// ProcessQuestions processes the requests concurrently and returns one
// outcome per request, in completion order.
func (b *BatchProcessor) ProcessQuestions(ctx context.Context, requests []Request) []*QueryOutcome {
	if len(requests) == 0 {
		return []*QueryOutcome{}
	}

	pool := worker.NewPool(b.concurrency)
	pool.Start()

	for _, req := range requests {
		pool.Submit(&QueryJob{Request: req, Processor: b.processor})
	}

	results := pool.Wait()

	outcomes := make([]*QueryOutcome, 0, len(results))
	for _, r := range results {
		if outcome, ok := r.(*QueryOutcome); ok {
			outcomes = append(outcomes, outcome)
		}
	}
	return outcomes
}

// ReadQuestions reads one question per line, skipping blanks and
// #-comments.
func ReadQuestions(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open questions file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var questions []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		questions = append(questions, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	return questions, nil
}
