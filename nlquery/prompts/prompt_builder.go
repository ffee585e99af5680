package prompts

import "fmt"

// PromptBuilder constructs the prompts sent to the model.
type PromptBuilder struct {
	baseContext string
	examples    string
}

// NewPromptBuilder returns a PromptBuilder carrying the saber_pro schema
// context.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		baseContext: SchemaContext,
		examples:    QueryExamples,
	}
}

// BuildQueryPrompt creates a prompt for SQL query generation.
func (pb *PromptBuilder) BuildQueryPrompt(query string) string {
	return fmt.Sprintf(`You are a SQL query generator for a Colombian Saber Pro results database. Follow these rules strictly:

%s

Rules:
1. SQLite dialect only. No PRAGMA, no ATTACH, a single SELECT statement.
2. Categorical values are stored verbatim in Spanish; match them exactly as listed above.
3. Exclude NULL scores from aggregates with "column IS NOT NULL".
4. Use the derived year column for year filters, not substrings of periodo.
5. Respond with the SQL only, no explanation.

Example queries:
%s

Now generate a SQL query for this question: %s`, pb.baseContext, pb.examples, query)
}

// BuildErrorPrompt creates a prompt for generating a user-facing explanation
// of a failed query.
func (pb *PromptBuilder) BuildErrorPrompt(query string, err error) string {
	return fmt.Sprintf(`Generate a user-friendly error message for this failed question against a Saber Pro results database:

Question: "%s"

Error: %v

Requirements:
1. Explain the issue in simple terms
2. Suggest how to rephrase the question
3. Keep the message concise and helpful

Error Message:`, query, err)
}
