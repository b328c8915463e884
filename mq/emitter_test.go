package mq

import (
	"errors"
	"testing"
)

func TestEmitPublishesCollectionName(t *testing.T) {
	var got []string
	orig := publish
	publish = func(collection string) error {
		got = append(got, collection)
		return nil
	}
	defer func() { publish = orig }()

	// no caller context: a settled mutation notifies unconditionally
	Emit("recipes")
	Emit("boards")

	if len(got) != 2 || got[0] != "recipes" || got[1] != "boards" {
		t.Fatalf("published = %v", got)
	}
}

func TestEmitSwallowsPublishFailure(t *testing.T) {
	orig := publish
	publish = func(string) error { return errors.New("connection refused") }
	defer func() { publish = orig }()

	// must not panic; a missed notification is tolerated
	Emit("recipes")
}
