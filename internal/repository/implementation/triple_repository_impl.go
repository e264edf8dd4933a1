package implementation

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"graphrag-chatbot-be/internal/model"
	"graphrag-chatbot-be/internal/repository/contract"
)

type TripleRepositoryImpl struct {
	db *gorm.DB
}

func NewTripleRepository(db *gorm.DB) contract.TripleRepository {
	return &TripleRepositoryImpl{db: db}
}

func (r *TripleRepositoryImpl) SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]model.Triple, error) {
	var conditions []string
	var args []interface{}
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		pattern := "%" + strings.ToLower(keyword) + "%"
		conditions = append(conditions,
			"LOWER(subject) LIKE ?", "LOWER(predicate) LIKE ?", "LOWER(object) LIKE ?")
		args = append(args, pattern, pattern, pattern)
	}

	query := r.db.WithContext(ctx).Model(&model.Triple{})
	if len(conditions) > 0 {
		query = query.Where(strings.Join(conditions, " OR "), args...)
	}

	var triples []model.Triple
	if err := query.Limit(limit).Find(&triples).Error; err != nil {
		return nil, err
	}
	return triples, nil
}

func (r *TripleRepositoryImpl) SearchByParts(ctx context.Context, subject, predicate, object string, limit int) ([]model.Triple, error) {
	var conditions []string
	var args []interface{}

	if s := strings.TrimSpace(subject); s != "" {
		conditions = append(conditions, "LOWER(subject) LIKE ?")
		args = append(args, "%"+strings.ToLower(s)+"%")
	}
	if p := strings.TrimSpace(predicate); p != "" {
		conditions = append(conditions, "LOWER(predicate) LIKE ?")
		args = append(args, "%"+strings.ToLower(p)+"%")
	}
	if o := strings.TrimSpace(object); o != "" {
		conditions = append(conditions, "LOWER(object) LIKE ?")
		args = append(args, "%"+strings.ToLower(o)+"%")
	}

	if len(conditions) == 0 {
		return nil, nil
	}

	var triples []model.Triple
	err := r.db.WithContext(ctx).
		Model(&model.Triple{}).
		Where(strings.Join(conditions, " OR "), args...).
		Limit(limit).
		Find(&triples).Error
	if err != nil {
		return nil, err
	}
	return triples, nil
}
