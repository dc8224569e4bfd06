package generator

import (
	"context"
	"errors"
	"strings"
)

// DefaultWordCount is the target length used when a request omits one.
const DefaultWordCount int64 = 1200

// ErrEmptyKeyword is returned when no topic keyword is supplied.
var ErrEmptyKeyword = errors.New("generator: keyword is required")

// Result is a produced article. WordCount is measured from Content and may
// differ from the requested target.
type Result struct {
	Title     string
	Content   string
	WordCount int64
}

// Generator produces an article for a topic keyword. wordCount is a target
// hint; implementations report the actual length in the Result.
type Generator interface {
	Generate(ctx context.Context, keyword string, wordCount int64) (*Result, error)
}

// CountWords counts whitespace-separated words in markdown content.
func CountWords(content string) int64 {
	return int64(len(strings.Fields(content)))
}
