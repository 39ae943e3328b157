// Package summarizer reduces canonical articles to short prose summaries
// with a length-constrained generation backend. Summary length scales with
// input length, oversized inputs are chunked and recombined, and every
// failure degrades to a visible placeholder instead of aborting the batch.
package summarizer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ryosukesatoh/tech-curator/internal/article"
	"github.com/ryosukesatoh/tech-curator/internal/logger"
)

// Generator is the length-constrained generation backend. Output is
// deterministic given identical inputs and model weights.
type Generator interface {
	Generate(ctx context.Context, text string, maxLength, minLength int) (string, error)
}

const (
	// modelContextTokens is the generation model's context budget.
	modelContextTokens = 1024
	// contextMargin is reserved for control tokens when truncating input to
	// the context budget.
	contextMargin = 50
	// Inputs above chunkThresholdWords are split into chunkSizeWords windows
	// and summarized piecewise.
	chunkThresholdWords = 1000
	chunkSizeWords      = 800
	// maxSummaryDepth bounds the meta-summary re-passes over concatenated
	// chunk summaries so pathological inputs cannot recurse forever.
	maxSummaryDepth = 2
)

const (
	noContentSentinel = "No content available to summarize."
	noSummarySentinel = "Could not generate summary."
)

// Summarizer drives the generation backend over batches of articles.
type Summarizer struct {
	gen Generator
	log *logger.Logger
}

func New(gen Generator, log *logger.Logger) *Summarizer {
	return &Summarizer{gen: gen, log: log.With("component", "summarizer")}
}

// Summarize reduces text to a short summary. It never fails: generation
// errors yield a placeholder embedding the reason.
func (s *Summarizer) Summarize(ctx context.Context, text string) string {
	out, err := s.summarize(ctx, text, 0)
	if err != nil {
		s.log.Error("summarization failed", "error", err)
		return fmt.Sprintf("Summary unavailable: %v", err)
	}
	return out
}

// summarize is the recursive core. depth counts meta-summary passes.
func (s *Summarizer) summarize(ctx context.Context, text string, depth int) (string, error) {
	text = cleanText(text)
	if text == "" {
		return noContentSentinel, nil
	}

	words := strings.Fields(text)

	// Oversized inputs go through the chunk-and-recombine path.
	if len(words) > chunkThresholdWords {
		return s.summarizeChunked(ctx, words, depth)
	}

	// Truncate to the model context budget before deriving budgets.
	if budget := modelContextTokens - contextMargin; len(words) > budget {
		words = words[:budget]
		text = strings.Join(words, " ")
	}

	maxLen, minLen := lengthBudget(len(words))
	maxLen, minLen = clampBudget(maxLen, minLen, len(words))

	out, err := s.gen.Generate(ctx, text, maxLen, minLen)
	if err != nil {
		return "", err
	}

	return ensureTerminal(strings.TrimSpace(out)), nil
}

// summarizeChunked splits the input into fixed-size word windows,
// summarizes each independently, and runs one bounded meta-summary pass
// over the concatenation when more than one chunk was produced.
func (s *Summarizer) summarizeChunked(ctx context.Context, words []string, depth int) (string, error) {
	chunks := chunkWords(words, chunkSizeWords)
	if len(chunks) == 0 {
		return noSummarySentinel, nil
	}

	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		text := strings.Join(chunk, " ")

		maxLen := min(100, len(chunk)/3)
		minLen := max(50, maxLen/2)
		maxLen, minLen = clampBudget(maxLen, minLen, len(chunk))

		out, err := s.gen.Generate(ctx, text, maxLen, minLen)
		if err != nil {
			// Degrade to the chunk's first sentence; one bad chunk must not
			// sink the item.
			s.log.Warn("chunk summarization failed, using first sentence", "chunk", i, "error", err)
			out = strings.SplitN(text, ".", 2)[0]
		}
		summaries = append(summaries, strings.TrimSpace(out))
	}

	if len(chunks) == 1 {
		return ensureTerminal(summaries[0]), nil
	}

	combined := strings.Join(summaries, " ")
	if depth+1 >= maxSummaryDepth {
		return ensureTerminal(combined), nil
	}

	meta, err := s.summarize(ctx, combined, depth+1)
	if err != nil {
		// Meta-pass failed; the concatenated chunk summaries stand as-is.
		s.log.Warn("meta-summary pass failed, returning chunk summaries", "error", err)
		return ensureTerminal(combined), nil
	}
	return meta, nil
}

// SummarizeArticles produces one digest entry per article, in order. The
// text handed to the model is the title plus the extracted content, or the
// pre-summarization excerpt when no content was fetched.
func (s *Summarizer) SummarizeArticles(ctx context.Context, articles []article.Article) []article.Entry {
	if len(articles) == 0 {
		s.log.Warn("no articles provided for summarization")
		return []article.Entry{}
	}

	entries := make([]article.Entry, 0, len(articles))
	for _, a := range articles {
		s.log.Debug("summarizing article", "title", a.Title, "source", a.Source)

		text := a.Title
		switch {
		case a.Content != "":
			text += "\n\n" + a.Content
		case a.Summary != "":
			text += "\n\n" + a.Summary
		}

		summary := s.Summarize(ctx, text)
		summary = formatBySource(summary, a.Title, a.Source)

		entries = append(entries, article.Entry{
			Title:   a.Title,
			Summary: summary,
			Link:    a.Link,
			Source:  a.Source,
			Date:    a.Date,
		})
	}

	s.log.Info("summarized articles", "count", len(entries))
	return entries
}

// lengthBudget buckets the requested summary length by input word count.
// Fixed targets either destroy medium articles or pad short ones, so the
// budget scales with n.
func lengthBudget(n int) (maxLen, minLen int) {
	switch {
	case n < 30:
		maxLen = max(10, min(n-1, 25))
		minLen = max(5, maxLen/2)
	case n < 100:
		maxLen = min(n*3/5, 50)
		minLen = max(20, maxLen/2)
	case n < 300:
		maxLen = min(n*3/10, 90)
		minLen = max(40, maxLen/2)
	default:
		maxLen = min(120, n/4)
		minLen = max(60, maxLen/2)
	}
	return maxLen, minLen
}

// clampBudget enforces maxLen < n for every generation call. The model
// warns, or worse, when asked for more tokens than it was given.
func clampBudget(maxLen, minLen, n int) (int, int) {
	if maxLen >= n {
		maxLen = max(n-1, 5)
		minLen = max(maxLen/2, 3)
	}
	return maxLen, minLen
}

// chunkWords splits words into contiguous non-overlapping windows of size
// words each; the final chunk may be shorter.
func chunkWords(words []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(words); start += size {
		end := min(start+size, len(words))
		chunks = append(chunks, words[start:end])
	}
	return chunks
}

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// cleanText collapses intra-line whitespace, joins non-blank lines with
// single spaces, and decodes the handful of HTML entities that survive
// extraction. Runs before any length calculation.
func cleanText(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if collapsed := strings.Join(strings.Fields(line), " "); collapsed != "" {
			lines = append(lines, collapsed)
		}
	}
	return entityReplacer.Replace(strings.Join(lines, " "))
}

// ensureTerminal appends a period when the text does not already end in
// terminal punctuation.
func ensureTerminal(s string) string {
	if s == "" {
		return s
	}
	last, _ := utf8.DecodeLastRuneInString(s)
	if strings.ContainsRune(`.!?"'`, last) {
		return s
	}
	return s + "."
}
