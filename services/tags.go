package services

import (
	"fmt"
	"strings"

	"github.com/picboard/picboard-backend/errs"
)

// DefaultMinTags is the minimum number of distinct tags an upload must carry.
const DefaultMinTags = 4

// NormalizeTags parses a free-text tag expression into an ordered list of
// non-empty tokens. The expression is split on whitespace; duplicate tokens
// are preserved as separate association attempts (the association table's
// unique constraint collapses them later). The minimum-count policy is
// checked against distinct tokens.
func NormalizeTags(expr string, minTags int) ([]string, error) {
	tokens := strings.Fields(expr)
	if countDistinct(tokens) < minTags {
		return nil, errs.NewValidationError(
			fmt.Sprintf("Minimum %d space separated tags. ie: red race_car bmw m3", minTags),
		)
	}
	return tokens, nil
}

func countDistinct(tokens []string) int {
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		seen[t] = struct{}{}
	}
	return len(seen)
}
