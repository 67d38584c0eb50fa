package compile

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mathplanner/mathplanner/internal/database"
)

// GenerationRecord is the Mongo representation of one generation job's
// metadata: who asked, what was generated, which strategy won, and where
// the archived PDF lives in object storage.
type GenerationRecord struct {
	JobID         string    `bson:"jobId" json:"jobId"`
	Sub           string    `bson:"sub" json:"sub"`
	LevelName     string    `bson:"levelName" json:"levelName"`
	Semester      string    `bson:"semester" json:"semester"`
	ChapterNumber int       `bson:"chapterNumber" json:"chapterNumber"`
	TemplateName  string    `bson:"templateName" json:"templateName"`
	Filename      string    `bson:"filename" json:"filename"`
	Strategy      string    `bson:"strategy" json:"strategy"`
	Status        string    `bson:"status" json:"status"`
	PDFKey        string    `bson:"pdfKey,omitempty" json:"pdfKey,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SaveRecord persists (upsert) generation metadata. If mongoURI is empty the
// function is a no-op: archival is optional and must never block a download.
func SaveRecord(ctx context.Context, mongoURI, databaseName string, rec *GenerationRecord) error {
	if mongoURI == "" {
		return nil
	}
	client, err := database.ConnectMongo(ctx, mongoURI, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(ctx)

	col := client.Database(databaseName).Collection("generation_jobs")
	filter := bson.M{"jobId": rec.JobID}
	opts := options.Update().SetUpsert(true)
	if _, err := col.UpdateOne(ctx, filter, bson.M{"$set": rec}, opts); err != nil {
		return fmt.Errorf("save generation job: %w", err)
	}
	return nil
}

// LoadRecord fetches a generation job by jobId. Returns nil when not found
// or when no Mongo is configured.
func LoadRecord(ctx context.Context, mongoURI, databaseName, jobID string) (*GenerationRecord, error) {
	if mongoURI == "" {
		return nil, nil
	}
	client, err := database.ConnectMongo(ctx, mongoURI, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(ctx)
	col := client.Database(databaseName).Collection("generation_jobs")
	var rec GenerationRecord
	if err := col.FindOne(ctx, bson.M{"jobId": jobID}).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
