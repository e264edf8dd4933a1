package contract

import (
	"context"

	"graphrag-chatbot-be/internal/model"
)

type TripleRepository interface {
	// SearchByKeywords matches any keyword against subject, predicate or
	// object, case-insensitively.
	SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]model.Triple, error)
	// SearchByParts matches the provided triple elements; blank elements
	// are ignored.
	SearchByParts(ctx context.Context, subject, predicate, object string, limit int) ([]model.Triple, error)
}
