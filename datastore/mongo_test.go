package datastore

import (
	"testing"

	"forkful/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestStoredRecipeListsAreArraysNotNull(t *testing.T) {
	// a valid create can arrive with nil lists (empty form fields)
	r := withoutNilLists(models.Recipe{RecipeID: "r1", Title: "Toast"})

	raw, err := bson.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{"ingredients", "instructions"} {
		v := bson.Raw(raw).Lookup(field)
		if v.Type != bson.TypeArray {
			t.Errorf("%s stored as %v, want array", field, v.Type)
		}
	}
}

func TestWithoutNilListsKeepsPopulatedLists(t *testing.T) {
	r := withoutNilLists(models.Recipe{
		Ingredients:  []string{"bread", "butter"},
		Instructions: []string{"toast it"},
	})
	if len(r.Ingredients) != 2 || r.Ingredients[0] != "bread" {
		t.Fatalf("ingredients rewritten: %v", r.Ingredients)
	}
	if len(r.Instructions) != 1 || r.Instructions[0] != "toast it" {
		t.Fatalf("instructions rewritten: %v", r.Instructions)
	}
}
