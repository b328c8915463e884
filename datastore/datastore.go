// Package datastore is the data-access boundary: document mutations,
// blob storage, and whole-collection snapshot subscriptions. Every call
// either wholly succeeds or wholly fails; there is no partial-failure
// granularity below one call.
package datastore

import (
	"context"
	"mime/multipart"

	"forkful/models"
)

const (
	CollRecipes = "recipes"
	CollBoards  = "boards"
)

// Documents is the document-store surface consumed by the view-state
// controller. Create calls return the new identifier; updates write only
// the named fields, never nulls.
type Documents interface {
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	ListBoards(ctx context.Context) ([]models.Board, error)

	InsertRecipe(ctx context.Context, r models.Recipe) (string, error)
	UpdateRecipeBoards(ctx context.Context, recipeID string, boards []string) error
	DeleteRecipe(ctx context.Context, recipeID string) error

	InsertBoard(ctx context.Context, b models.Board) (string, error)
	UpdateBoardCover(ctx context.Context, boardID, coverURL string) error
	RenameBoard(ctx context.Context, boardID, newName string) error
	DeleteBoard(ctx context.Context, boardID string) error
}

// Blobs stores uploaded recipe photos and returns storage-relative
// paths that resolve under the public static base.
type Blobs interface {
	SavePhoto(file multipart.File, header *multipart.FileHeader, title string) (localPath, thumbPath string, err error)
}
