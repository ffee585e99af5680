// Package nlquery answers natural-language questions about the results
// database by asking Gemini for SQL, validating it, and running it read-only
// through the store.
package nlquery

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/generative-ai-go/genai"
	"github.com/olekukonko/tablewriter"
	"google.golang.org/api/option"

	"github.com/mcastillo/saberpro_db/nlquery/prompts"
	"github.com/mcastillo/saberpro_db/store"
)

const (
	modelName    = "gemini-1.5-flash"
	queryTimeout = 45 * time.Second
)

// Engine turns questions into validated SELECT statements and renders the
// results.
type Engine struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	store   *store.Store
	prompts *prompts.PromptBuilder
}

// NewEngine builds an Engine over st. It needs at least one Gemini API key in
// the environment; KeyManager picks which one this session uses.
func NewEngine(ctx context.Context, st *store.Store) (*Engine, error) {
	keys := NewKeyManager()
	if !keys.HasKeys() {
		return nil, fmt.Errorf("no Gemini API key configured; set GEMINI_API_KEY")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(keys.NextKey()))
	if err != nil {
		return nil, fmt.Errorf("initialize Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	temp := float32(0.2) // SQL generation wants precision over variety
	model.Temperature = &temp

	return &Engine{
		client:  client,
		model:   model,
		store:   st,
		prompts: prompts.NewPromptBuilder(),
	}, nil
}

// Close releases the API client.
func (e *Engine) Close() error {
	return e.client.Close()
}

// ProcessQuery answers one natural-language question: generate SQL, validate
// it, execute it, render the result table.
func (e *Engine) ProcessQuery(ctx context.Context, question string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sqlQuery, err := e.generateSQL(ctx, question)
	if err != nil {
		// The offline patterns cover the common question shapes when the
		// API is unreachable.
		sqlQuery, err = GenerateSQL(question)
		if err != nil {
			return fmt.Errorf("generate SQL: %w", err)
		}
	}

	if err := ValidateSQL(sqlQuery); err != nil {
		return fmt.Errorf("rejected generated SQL: %w", err)
	}

	color.Cyan("\nExecuting SQL:\n%s\n", sqlQuery)

	res, err := e.store.Query(ctx, sqlQuery)
	if err != nil {
		return fmt.Errorf("execute query: %w", err)
	}
	e.renderResult(res)
	return nil
}

func (e *Engine) generateSQL(ctx context.Context, question string) (string, error) {
	var lastErr error
	backoff := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}

	for _, wait := range backoff {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		chat := e.model.StartChat()
		resp, err := chat.SendMessage(ctx, genai.Text(e.prompts.BuildQueryPrompt(question)))
		if err != nil {
			lastErr = err
			time.Sleep(wait)
			continue
		}
		if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = fmt.Errorf("no response candidates")
			time.Sleep(wait)
			continue
		}

		sqlQuery, err := extractSQL(resp.Candidates[0].Content.Parts[0])
		if err != nil {
			lastErr = err
			time.Sleep(wait)
			continue
		}
		return sqlQuery, nil
	}
	return "", fmt.Errorf("all attempts failed: %w", lastErr)
}

// extractSQL pulls the SQL statement out of a model response, stripping any
// code fence around it.
func extractSQL(part genai.Part) (string, error) {
	text, ok := part.(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type: %T", part)
	}

	sqlQuery := strings.TrimSpace(string(text))
	for _, fence := range []string{"```sql", "```SQL", "```sqlite", "```"} {
		if strings.HasPrefix(sqlQuery, fence) {
			sqlQuery = strings.TrimPrefix(sqlQuery, fence)
			if idx := strings.LastIndex(sqlQuery, "```"); idx != -1 {
				sqlQuery = sqlQuery[:idx]
			}
			break
		}
	}

	sqlQuery = strings.TrimSpace(sqlQuery)
	if sqlQuery == "" {
		return "", fmt.Errorf("empty SQL after extraction")
	}
	return sqlQuery, nil
}

func (e *Engine) renderResult(res *store.Result) {
	if res.Empty() {
		color.Yellow("No results found.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(res.Columns)
	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		table.Append(cells)
	}
	table.Render()

	if res.Truncated {
		color.Yellow("Result truncated at the configured row cap.")
	}
	fmt.Printf("\n%d row(s)\n", len(res.Rows))
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case float64:
		return fmt.Sprintf("%.2f", t)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
