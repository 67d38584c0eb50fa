// Package profile stores teacher profiles: the identity and school fields
// that feed document personalization, plus the subscription plan reference.
package profile

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Profile is one teacher account.
type Profile struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Sub          string    `json:"sub" bson:"sub"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	FullName     string    `json:"full_name" bson:"fullName"`
	SchoolName   string    `json:"school_name,omitempty" bson:"schoolName,omitempty"`
	AcademicYear string    `json:"academic_year,omitempty" bson:"academicYear,omitempty"`
	PlanID       string    `json:"plan_id,omitempty" bson:"planId,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Repository defines persistence operations for profiles.
type Repository interface {
	UpsertBySub(ctx context.Context, p *Profile) (*Profile, error)
	GetBySub(ctx context.Context, sub string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
}

// MongoRepository implements Repository using MongoDB.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) UpsertBySub(ctx context.Context, p *Profile) (*Profile, error) {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	filter := bson.M{"sub": p.Sub}
	set := bson.M{
		"email":     p.Email,
		"fullName":  p.FullName,
		"updatedAt": p.UpdatedAt,
		"createdAt": p.CreatedAt,
	}
	if p.PasswordHash != "" {
		set["passwordHash"] = p.PasswordHash
	}
	if p.SchoolName != "" {
		set["schoolName"] = p.SchoolName
	}
	if p.AcademicYear != "" {
		set["academicYear"] = p.AcademicYear
	}
	if p.PlanID != "" {
		set["planId"] = p.PlanID
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var updated Profile
	if err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return p, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (r *MongoRepository) GetBySub(ctx context.Context, sub string) (*Profile, error) {
	var p Profile
	if err := r.col.FindOne(ctx, bson.M{"sub": sub}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	var p Profile
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// MemoryRepository keeps profiles in memory for tests and configurations
// without a database.
type MemoryRepository struct {
	mu    sync.RWMutex
	bySub map[string]*Profile
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bySub: make(map[string]*Profile)}
}

func (r *MemoryRepository) UpsertBySub(ctx context.Context, p *Profile) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.bySub[p.Sub]; ok {
		p.CreatedAt = existing.CreatedAt
		if p.PasswordHash == "" {
			p.PasswordHash = existing.PasswordHash
		}
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	cp := *p
	r.bySub[p.Sub] = &cp
	return &cp, nil
}

func (r *MemoryRepository) GetBySub(ctx context.Context, sub string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.bySub[sub]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.bySub {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}
