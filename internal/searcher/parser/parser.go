package parser

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/errors"
)

type QueryType int

const (
	QueryBigram QueryType = iota
	QuerySearch
)

const (
	BigramPrefix = "the most probable bigram of "
	SearchPrefix = "search "
)

func (t QueryType) String() string {
	switch t {
	case QueryBigram:
		return "bigram"
	case QuerySearch:
		return "search"
	default:
		return "unknown"
	}
}

type QueryPlan struct {
	Type     QueryType
	Terms    []string
	RawQuery string
}

// Parse classifies a query line by its literal, case-sensitive prefix and
// splits the remainder into operand words. A bigram query takes exactly
// one operand; a search query takes at least one.
func Parse(line string) (*QueryPlan, error) {
	plan := &QueryPlan{RawQuery: line}
	var rest string
	switch {
	case strings.HasPrefix(line, BigramPrefix):
		plan.Type = QueryBigram
		rest = strings.TrimPrefix(line, BigramPrefix)
	case strings.HasPrefix(line, SearchPrefix):
		plan.Type = QuerySearch
		rest = strings.TrimPrefix(line, SearchPrefix)
	default:
		return nil, apperrors.New(apperrors.ErrQueryFormat, "line matches no known query prefix")
	}
	plan.Terms = tokenizer.Words(rest)

	switch {
	case plan.Type == QueryBigram && len(plan.Terms) != 1:
		return nil, apperrors.Newf(apperrors.ErrQueryFormat, "bigram query needs exactly one word, got %d", len(plan.Terms))
	case plan.Type == QuerySearch && len(plan.Terms) == 0:
		return nil, apperrors.New(apperrors.ErrQueryFormat, "search query has no words")
	}
	return plan, nil
}
