package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"catalog-sync-service/internal/models"
)

// minTokenLength excludes short stop-word noise from the search index
const minTokenLength = 3

// Indexes bundles the four derived lookup documents
type Indexes struct {
	Category models.IndexDocument
	Status   models.IndexDocument
	Type     models.IndexDocument
	Search   models.IndexDocument
}

// BuildIndexes derives the lookup documents from the normalized product map
// in one pass. The output is deterministic: bucket id lists are sorted, so
// re-running on the same snapshot yields identical documents apart from the
// LastUpdated stamp.
func BuildIndexes(products map[int]models.Product, now time.Time) Indexes {
	category := make(map[string][]int)
	status := make(map[string][]int)
	ptype := make(map[string][]int)
	search := make(map[string][]int)

	for id, p := range products {
		if len(p.CategoryIDs) == 0 {
			category[models.UncategorizedBucket] = append(category[models.UncategorizedBucket], id)
		} else {
			for _, catID := range p.CategoryIDs {
				bucket := strconv.Itoa(catID)
				category[bucket] = append(category[bucket], id)
			}
		}

		status[p.Status] = append(status[p.Status], id)
		ptype[string(p.Type)] = append(ptype[string(p.Type)], id)

		for token := range searchTokens(p) {
			search[token] = append(search[token], id)
		}
	}

	return Indexes{
		Category: finishIndex(category, now),
		Status:   finishIndex(status, now),
		Type:     finishIndex(ptype, now),
		Search:   finishIndex(search, now),
	}
}

// searchTokens extracts the deduplicated token set for one product:
// lowercase whitespace-split words longer than two characters from the
// name, SKU and both description fields, with markup stripped first.
func searchTokens(p models.Product) map[string]struct{} {
	text := strings.Join([]string{
		p.Name,
		p.SKU,
		StripTags(p.Description),
		StripTags(p.ShortDescription),
	}, " ")

	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if len(word) >= minTokenLength {
			tokens[word] = struct{}{}
		}
	}
	return tokens
}

func finishIndex(index map[string][]int, now time.Time) models.IndexDocument {
	for _, ids := range index {
		sort.Ints(ids)
	}
	return models.IndexDocument{
		SyncVersion: models.SyncVersion,
		Index:       index,
		LastUpdated: now,
	}
}
