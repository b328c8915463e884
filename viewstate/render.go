package viewstate

import (
	"fmt"

	"forkful/filemgr"
	"forkful/models"
)

// RecipeCard is one displayable recipe with its resolved image URL. An
// empty Image means the presentation layer renders a placeholder.
type RecipeCard struct {
	models.Recipe
	Image string `json:"image"`
}

type BoardCard struct {
	models.Board
	Count int `json:"count"`
}

// RenderModel is the pure output the presentation layer consumes: lists,
// labels, and flags, never markup.
type RenderModel struct {
	Mode        ViewMode     `json:"mode"`
	Recipes     []RecipeCard `json:"recipes"`
	Boards      []BoardCard  `json:"boards"`
	CountLabel  string       `json:"countLabel"`
	Query       string       `json:"query"`
	Sort        SortKey      `json:"sort"`
	ActiveBoard string       `json:"activeBoard,omitempty"`
	ShowBack    bool         `json:"showBack"`
	CanEdit     bool         `json:"canEdit"`
	Error       string       `json:"error,omitempty"`
}

// Render recomputes the derived sequence against the latest snapshots
// and returns the current render model. A snapshot error surfaces as a
// persistent inline message while the last-known items stay visible.
func (c *Controller) Render() RenderModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recompute()

	m := RenderModel{
		Mode:        c.mode,
		Query:       c.query,
		Sort:        c.sortKey,
		ActiveBoard: c.activeBoard,
		ShowBack:    c.activeBoard != "",
		CanEdit:     c.curator,
	}

	if err := c.recipes.Err(); err != nil {
		m.Error = "Live updates interrupted; showing the last loaded recipes."
	} else if err := c.boards.Err(); err != nil {
		m.Error = "Live updates interrupted; showing the last loaded boards."
	}

	switch c.mode {
	case ModeBoards:
		boards := c.boards.Snapshot()
		counts := boardCounts(c.recipes.Snapshot())
		m.Boards = make([]BoardCard, 0, len(boards))
		for _, b := range boards {
			m.Boards = append(m.Boards, BoardCard{Board: b, Count: counts[b.Name]})
		}
		m.CountLabel = countLabel(len(m.Boards), "board")
	default:
		m.Recipes = make([]RecipeCard, 0, len(c.derived))
		for _, r := range c.derived {
			m.Recipes = append(m.Recipes, RecipeCard{
				Recipe: r,
				Image:  filemgr.ResolveImageURL(r.ImageURL, r.LocalImagePath),
			})
		}
		m.CountLabel = countLabel(len(m.Recipes), "recipe")
	}
	return m
}

func boardCounts(recipes []models.Recipe) map[string]int {
	counts := make(map[string]int)
	for _, r := range recipes {
		seen := make(map[string]bool, len(r.Boards))
		for _, b := range r.Boards {
			if !seen[b] {
				counts[b]++
				seen[b] = true
			}
		}
	}
	return counts
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
