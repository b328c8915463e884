package datastore

import (
	"context"
	"mime/multipart"
	"time"

	"forkful/db"
	"forkful/filemgr"
	"forkful/models"
	"forkful/mq"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore implements Documents over the shared Mongo collections and
// Blobs over local disk. Every successful mutation emits a change
// notification so subscribers push a fresh snapshot.
type MongoStore struct {
	Recipes *mongo.Collection
	Boards  *mongo.Collection
}

func NewMongoStore() *MongoStore {
	return &MongoStore{
		Recipes: db.RecipeCollection,
		Boards:  db.BoardCollection,
	}
}

func (s *MongoStore) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	cursor, err := s.Recipes.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recipes []models.Recipe
	if err = cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *MongoStore) ListBoards(ctx context.Context) ([]models.Board, error) {
	cursor, err := s.Boards.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var boards []models.Board
	if err = cursor.All(ctx, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// withoutNilLists replaces nil list fields with empty slices. Nil slices
// marshal to BSON null; the stored document must carry arrays.
func withoutNilLists(r models.Recipe) models.Recipe {
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
	return r
}

func (s *MongoStore) InsertRecipe(ctx context.Context, r models.Recipe) (string, error) {
	r = withoutNilLists(r)
	r.RecipeID = uuid.NewString()
	if r.CreatedAt == "" {
		r.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	// omitempty tags on Recipe keep absent optionals out of the document
	if _, err := s.Recipes.InsertOne(ctx, r); err != nil {
		return "", err
	}
	mq.Emit(CollRecipes)
	return r.RecipeID, nil
}

func (s *MongoStore) UpdateRecipeBoards(ctx context.Context, recipeID string, boards []string) error {
	if boards == nil {
		boards = []string{}
	}
	_, err := s.Recipes.UpdateOne(ctx,
		bson.M{"recipeid": recipeID},
		bson.M{"$set": bson.M{"boards": boards}},
	)
	if err != nil {
		return err
	}
	mq.Emit(CollRecipes)
	return nil
}

func (s *MongoStore) DeleteRecipe(ctx context.Context, recipeID string) error {
	if _, err := s.Recipes.DeleteOne(ctx, bson.M{"recipeid": recipeID}); err != nil {
		return err
	}
	mq.Emit(CollRecipes)
	return nil
}

func (s *MongoStore) InsertBoard(ctx context.Context, b models.Board) (string, error) {
	b.BoardID = uuid.NewString()
	if b.CreatedAt == "" {
		b.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if _, err := s.Boards.InsertOne(ctx, b); err != nil {
		return "", err
	}
	mq.Emit(CollBoards)
	return b.BoardID, nil
}

func (s *MongoStore) UpdateBoardCover(ctx context.Context, boardID, coverURL string) error {
	_, err := s.Boards.UpdateOne(ctx,
		bson.M{"boardid": boardID},
		bson.M{"$set": bson.M{"coverImage": coverURL}},
	)
	if err != nil {
		return err
	}
	mq.Emit(CollBoards)
	return nil
}

func (s *MongoStore) RenameBoard(ctx context.Context, boardID, newName string) error {
	_, err := s.Boards.UpdateOne(ctx,
		bson.M{"boardid": boardID},
		bson.M{"$set": bson.M{"name": newName}},
	)
	if err != nil {
		return err
	}
	mq.Emit(CollBoards)
	return nil
}

func (s *MongoStore) DeleteBoard(ctx context.Context, boardID string) error {
	if _, err := s.Boards.DeleteOne(ctx, bson.M{"boardid": boardID}); err != nil {
		return err
	}
	mq.Emit(CollBoards)
	return nil
}

func (s *MongoStore) SavePhoto(file multipart.File, header *multipart.FileHeader, title string) (string, string, error) {
	return filemgr.SavePhoto(file, header, title)
}
