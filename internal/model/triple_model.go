package model

import (
	"time"

	"github.com/google/uuid"
)

// Triple is one subject-predicate-object fact in the knowledge store.
type Triple struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Subject   string    `gorm:"type:text;not null;index"`
	Predicate string    `gorm:"type:text;not null;index"`
	Object    string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Triple) TableName() string {
	return "knowledge_triples"
}

// Text renders the triple the way downstream prompts consume it.
func (t Triple) Text() string {
	return t.Subject + " " + t.Predicate + " " + t.Object
}
