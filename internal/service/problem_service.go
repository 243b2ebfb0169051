package service

import (
	"fmt"

	"placement_prep_backend/internal/model"
	"placement_prep_backend/internal/repository"
	"placement_prep_backend/internal/util"
)

// ProblemService 题目目录镜像的维护入口，引擎侧只读，
// 新题由管理端同步写入
type ProblemService struct {
	ProblemRepo *repository.ProblemRepository
}

func NewProblemService(problemRepo *repository.ProblemRepository) *ProblemService {
	return &ProblemService{ProblemRepo: problemRepo}
}

func (s *ProblemService) List(difficulty string, page, limit int) (*util.PageResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	problems, total, err := s.ProblemRepo.List(difficulty, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	return util.NewPage(problems, total, page, limit), nil
}

func (s *ProblemService) Create(problem *model.Problem) error {
	if problem.Slug == "" || problem.Title == "" {
		return util.ErrInvalidEvent
	}
	exists, err := s.ProblemRepo.SlugExists(problem.Slug)
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	if exists {
		return util.ErrSlugTaken
	}
	return s.ProblemRepo.Create(problem)
}
