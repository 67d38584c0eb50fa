package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mathplanner/mathplanner/pkg/logger"
)

// MongoRepo reads the catalog from MongoDB. Writes happen through the admin
// tooling, not this service, so the repository surface is read-only.
type MongoRepo struct {
	levels    *mongo.Collection
	plans     *mongo.Collection
	templates *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	templates := db.Collection("system_templates")
	// lookups are always level+semester filtered
	idxModel := mongo.IndexModel{Keys: bson.D{
		{Key: "level_id", Value: 1},
		{Key: "semester", Value: 1},
		{Key: "chapter_number", Value: 1},
	}}
	if _, err := templates.Indexes().CreateOne(context.Background(), idxModel); err != nil {
		logger.Warnf("catalog template index creation failed: %v", err)
	}
	return &MongoRepo{
		levels:    db.Collection("levels"),
		plans:     db.Collection("subscription_plans"),
		templates: templates,
	}
}

func (m *MongoRepo) Levels() ([]*Level, error) {
	opts := options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}})
	cur, err := m.levels.Find(context.Background(), bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(context.Background())
	out := []*Level{}
	for cur.Next(context.Background()) {
		var l Level
		if err := cur.Decode(&l); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Plan(id string) (*Plan, error) {
	var p Plan
	err := m.plans.FindOne(context.Background(), bson.M{"id": id}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (m *MongoRepo) Templates(levelID, semester string) ([]*TemplateMeta, error) {
	filter := bson.M{"level_id": levelID, "semester": semester, "is_active": true}
	opts := options.Find().SetSort(bson.D{{Key: "chapter_number", Value: 1}})
	cur, err := m.templates.Find(context.Background(), filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(context.Background())
	out := []*TemplateMeta{}
	for cur.Next(context.Background()) {
		var t TemplateMeta
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Template(id string) (*TemplateMeta, error) {
	var t TemplateMeta
	err := m.templates.FindOne(context.Background(), bson.M{"id": id}).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}
