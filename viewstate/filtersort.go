package viewstate

import (
	"sort"
	"strings"

	"forkful/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortTitleAZ   SortKey = "title-asc"
	SortTitleZA   SortKey = "title-desc"
	SortAuthorAZ  SortKey = "author-asc"
	DefaultSort           = SortNewest
)

// MatchesQuery reports whether query is a case-insensitive substring of
// the recipe's title, author, description, or any ingredient line. A
// blank query matches everything.
func MatchesQuery(r models.Recipe, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Author), q) ||
		strings.Contains(strings.ToLower(r.Description), q) {
		return true
	}
	for _, line := range r.Ingredients {
		if strings.Contains(strings.ToLower(line), q) {
			return true
		}
	}
	return false
}

// FilterRecipes keeps recipes matching query, preserving order.
func FilterRecipes(recipes []models.Recipe, query string) []models.Recipe {
	out := make([]models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if MatchesQuery(r, query) {
			out = append(out, r)
		}
	}
	return out
}

// OnBoard keeps recipes whose membership list contains the board name,
// preserving order.
func OnBoard(recipes []models.Recipe, name string) []models.Recipe {
	out := make([]models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		for _, b := range r.Boards {
			if b == name {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// SortRecipes orders recipes in place, stably, by key. Newest-first
// compares createdAt strings descending, which is time order because the
// timestamps are ISO-8601. Title and author comparisons are
// collation-aware; missing values compare as empty strings and so sort
// stably to the relevant end.
func SortRecipes(recipes []models.Recipe, key SortKey) {
	coll := collate.New(language.Und, collate.IgnoreCase)
	switch key {
	case SortTitleAZ:
		sort.SliceStable(recipes, func(i, j int) bool {
			return coll.CompareString(recipes[i].Title, recipes[j].Title) < 0
		})
	case SortTitleZA:
		sort.SliceStable(recipes, func(i, j int) bool {
			return coll.CompareString(recipes[i].Title, recipes[j].Title) > 0
		})
	case SortAuthorAZ:
		sort.SliceStable(recipes, func(i, j int) bool {
			return coll.CompareString(recipes[i].Author, recipes[j].Author) < 0
		})
	default: // SortNewest
		sort.SliceStable(recipes, func(i, j int) bool {
			return recipes[i].CreatedAt > recipes[j].CreatedAt
		})
	}
}
