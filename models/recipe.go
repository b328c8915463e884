package models

const (
	SourcePersonal = "personal"
	SourceImported = "imported"
)

// Recipe is one document in the recipes collection. CreatedAt is an
// ISO-8601 string so lexicographic order is time order. Optional fields
// carry omitempty so absent values are never written as nulls.
type Recipe struct {
	RecipeID       string   `json:"recipeid" bson:"recipeid"`
	UserID         string   `json:"userId,omitempty" bson:"userId,omitempty"`
	Title          string   `json:"title" bson:"title"`
	Author         string   `json:"author,omitempty" bson:"author,omitempty"`
	Description    string   `json:"description,omitempty" bson:"description,omitempty"`
	Ingredients    []string `json:"ingredients" bson:"ingredients"`
	Instructions   []string `json:"instructions" bson:"instructions"`
	PrepTime       string   `json:"prepTime,omitempty" bson:"prepTime,omitempty"`
	CookTime       string   `json:"cookTime,omitempty" bson:"cookTime,omitempty"`
	TotalTime      string   `json:"totalTime,omitempty" bson:"totalTime,omitempty"`
	Servings       string   `json:"servings,omitempty" bson:"servings,omitempty"`
	ImageURL       string   `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	LocalImagePath string   `json:"localImagePath,omitempty" bson:"localImagePath,omitempty"`
	Thumbnail      string   `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	SourceURL      string   `json:"sourceUrl,omitempty" bson:"sourceUrl,omitempty"`
	Source         string   `json:"source" bson:"source"`
	// Boards holds board-name memberships. Duplicates are possible and
	// must be tolerated; uniqueness is not a model invariant.
	Boards    []string `json:"boards,omitempty" bson:"boards,omitempty"`
	CreatedAt string   `json:"createdAt" bson:"createdAt"`
}

// Board is a named grouping of recipes, like an album. Name is
// human-facing and expected-unique; collision checks are advisory and
// case-insensitive, done before writes rather than enforced by the store.
type Board struct {
	BoardID    string `json:"boardid" bson:"boardid"`
	Name       string `json:"name" bson:"name"`
	CoverImage string `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	CreatedAt  string `json:"createdAt" bson:"createdAt"`
}
