// Package catalog holds the content catalog: school levels, subscription
// plans and the workbook template metadata that points into blob storage.
package catalog

import "time"

// Level is one school level teachers pick from (6EME, 2BAC, ...).
type Level struct {
	ID           string `json:"id" bson:"id"`
	Name         string `json:"name" bson:"name"`
	NameFr       string `json:"name_fr" bson:"name_fr"`
	DisplayOrder int    `json:"display_order" bson:"display_order"`
	IsActive     bool   `json:"is_active" bson:"is_active"`
}

// Plan is a subscription tier. Free plans gate chapter access.
type Plan struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	NameFr string `json:"name_fr" bson:"name_fr"`
	IsFree bool   `json:"is_free" bson:"is_free"`
}

// TemplateMeta describes one stored .tex workbook template. FilePath is the
// object key in the template bucket, never the content itself.
type TemplateMeta struct {
	ID            string    `json:"id" bson:"id"`
	Name          string    `json:"name" bson:"name"`
	Description   string    `json:"description,omitempty" bson:"description,omitempty"`
	LevelID       string    `json:"level_id" bson:"level_id"`
	PlanID        string    `json:"plan_id,omitempty" bson:"plan_id,omitempty"`
	Semester      string    `json:"semester" bson:"semester"`
	ChapterNumber int       `json:"chapter_number" bson:"chapter_number"`
	FilePath      string    `json:"file_path" bson:"file_path"`
	IsActive      bool      `json:"is_active" bson:"is_active"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
