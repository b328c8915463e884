package db

import (
	"context"
	"log"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	RecipeCollection *mongo.Collection
	BoardCollection  *mongo.Collection
	UserCollection   *mongo.Collection
	Client           *mongo.Client
)

// Initialize MongoDB connection
func init() {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	RecipeCollection = Client.Database("forkful").Collection("recipes")
	BoardCollection = Client.Database("forkful").Collection("boards")
	UserCollection = Client.Database("forkful").Collection("users")
}
