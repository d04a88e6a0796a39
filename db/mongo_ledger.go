package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const downloadsCollection = "downloads"

type MongoClient struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoClient connects to the shared ledger database.
func NewMongoClient(uri, database string) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("error connecting to MongoDB: %s", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("error pinging MongoDB: %s", err)
	}

	return &MongoClient{client: client, db: client.Database(database)}, nil
}

func (c *MongoClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

func (c *MongoClient) MarkDownloaded(dl Download) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"source": dl.Source, "photo_id": dl.PhotoID}
	update := bson.M{"$set": bson.M{
		"source":        dl.Source,
		"photo_id":      dl.PhotoID,
		"category":      dl.Category,
		"path":          dl.Path,
		"downloaded_at": time.Now(),
	}}

	_, err := c.db.Collection(downloadsCollection).
		UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error storing download: %s", err)
	}
	return nil
}

func (c *MongoClient) IsDownloaded(source, photoID string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := c.db.Collection(downloadsCollection).
		CountDocuments(ctx, bson.M{"source": source, "photo_id": photoID})
	if err != nil {
		return false, fmt.Errorf("error querying download: %s", err)
	}
	return count > 0, nil
}

func (c *MongoClient) TotalDownloaded() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := c.db.Collection(downloadsCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("error counting downloads: %s", err)
	}
	return int(count), nil
}
