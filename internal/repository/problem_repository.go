package repository

import (
	"errors"

	"placement_prep_backend/internal/model"

	"gorm.io/gorm"
)

type ProblemRepository struct {
	DB *gorm.DB
}

func NewProblemRepository(db *gorm.DB) *ProblemRepository {
	return &ProblemRepository{DB: db}
}

func (r *ProblemRepository) FindBySlug(slug string) (*model.Problem, error) {
	var problem model.Problem
	err := r.DB.Where("slug = ?", slug).First(&problem).Error
	if err != nil {
		return nil, err
	}
	return &problem, nil
}

func (r *ProblemRepository) SlugExists(slug string) (bool, error) {
	var problem model.Problem
	err := r.DB.Select("id").Where("slug = ?", slug).First(&problem).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *ProblemRepository) Create(problem *model.Problem) error {
	return r.DB.Create(problem).Error
}

func (r *ProblemRepository) List(difficulty string, limit, offset int) ([]model.Problem, int64, error) {
	query := r.DB.Model(&model.Problem{})
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var problems []model.Problem
	err := query.Order("slug asc").Limit(limit).Offset(offset).Find(&problems).Error
	if err != nil {
		return nil, 0, err
	}
	return problems, total, nil
}

func (r *ProblemRepository) Count() (int64, error) {
	var total int64
	err := r.DB.Model(&model.Problem{}).Count(&total).Error
	return total, err
}
