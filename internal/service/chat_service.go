package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/docforge/docforge/internal/index"
	"github.com/docforge/docforge/internal/model"
)

const (
	answerTopK = 3

	msgNoDocuments = "I don't have any documents to search through. Please upload some documents first using the Upload Document section."

	msgNothingFound = "I couldn't find specific information about that in the uploaded documents. " +
		"Try asking about something that might be in your documents, or upload more relevant files."

	msgApology = "Sorry, I encountered an error while searching through the documents. " +
		"Please try again or rephrase your question."

	answerDisclaimer = "\n*This information comes from your uploaded documents. For more details, " +
		"you can view the full documents in the See Documents section.*"
)

var proceduralKeywords = []string{"step", "procedure", "method", "how to", "instructions"}

// ChatService answers queries by retrieving the closest chunks and
// assembling an extractive answer. It never surfaces an error to the
// caller: every failure degrades to a fixed message. Cached answers are
// keyed on the index generation as well as the query, so any document
// mutation makes earlier answers unreachable.
type ChatService struct {
	index *index.Index
	cache *expirable.LRU[string, string]
}

func NewChatService(idx *index.Index) *ChatService {
	cache := expirable.NewLRU[string, string](1024, nil, 10*time.Minute)
	return &ChatService{index: idx, cache: cache}
}

func (s *ChatService) Ask(ctx context.Context, query string) string {
	logger := logutil.GetLogger(ctx).With(zap.String("query", query))

	count, err := s.index.Count(ctx)
	if err != nil {
		logger.Error("index count failed", zap.Error(err))
		return msgApology
	}
	if count == 0 {
		return msgNoDocuments
	}

	cacheKey := queryCacheKey(s.index.Generation(), query)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached
	}

	matches, err := s.index.Query(ctx, query, answerTopK)
	if err != nil {
		logger.Error("retrieval failed", zap.Error(err))
		return msgApology
	}
	if len(matches) == 0 {
		return msgNothingFound
	}
	logger.Debug("chunks retrieved", zap.Int("matches", len(matches)))

	answer := Synthesize(query, matches)
	s.cache.Add(cacheKey, answer)
	return answer
}

// Synthesize builds the extractive answer from the retrieved chunks. It is
// a pure function of its arguments.
func Synthesize(query string, matches []model.ChunkMatch) string {
	top := matches
	if len(top) > 2 {
		top = top[:2]
	}
	var answer string
	if isProcedural(query) {
		answer = proceduralAnswer(query, top)
	} else {
		answer = generalAnswer(query, top)
	}
	return answer + answerDisclaimer
}

func isProcedural(query string) bool {
	lower := strings.ToLower(query)
	return strings.Contains(lower, "procedure") ||
		strings.Contains(lower, "step") ||
		strings.Contains(lower, "how")
}

// proceduralAnswer quotes only the lines of each chunk that look like
// instructions, one bullet per line.
func proceduralAnswer(query string, top []model.ChunkMatch) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Here's what I found about '%s':\n\n", query)
	for i, match := range top {
		fmt.Fprintf(&sb, "**From %s:**\n", sourceName(match.Meta))
		for _, line := range strings.Split(match.Text, "\n") {
			lowerLine := strings.ToLower(line)
			for _, keyword := range proceduralKeywords {
				if strings.Contains(lowerLine, keyword) {
					fmt.Fprintf(&sb, "- %s\n", strings.TrimSpace(line))
					break
				}
			}
		}
		if i < len(top)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// generalAnswer picks up to three sentences per chunk, preferring ones
// that share a word with the query and falling back to the first
// substantial sentences seen.
func generalAnswer(query string, top []model.ChunkMatch) string {
	queryWords := strings.Fields(strings.ToLower(query))
	var sb strings.Builder
	sb.WriteString("Based on the uploaded documents:\n\n")
	for _, match := range top {
		fmt.Fprintf(&sb, "**Information from %s:**\n", sourceName(match.Meta))
		var selected []string
		for _, sentence := range strings.Split(match.Text, ". ") {
			if len(strings.Fields(sentence)) <= 3 {
				continue
			}
			lowerSentence := strings.ToLower(sentence)
			relevant := false
			for _, word := range queryWords {
				if strings.Contains(lowerSentence, word) {
					relevant = true
					break
				}
			}
			if relevant || len(selected) < 2 {
				selected = append(selected, strings.TrimSpace(sentence)+".")
			}
		}
		if len(selected) > 3 {
			selected = selected[:3]
		}
		sb.WriteString(strings.Join(selected, " ") + "\n\n")
	}
	return sb.String()
}

func sourceName(meta model.ChunkMeta) string {
	if meta.Source == "" {
		return "a document"
	}
	return meta.Source
}

func queryCacheKey(generation uint64, query string) string {
	hash := sha256.Sum256([]byte(query))
	return fmt.Sprintf("%d:%s", generation, hex.EncodeToString(hash[:]))
}
