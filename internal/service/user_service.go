package service

import (
	"sales_coach_backend/internal/model"
	"sales_coach_backend/internal/repository"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetUser(id uint) (*model.User, error) {
	return s.UserRepo.FindByID(id)
}

func (s *UserService) ListUsers(page, limit int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.UserRepo.List(page, limit)
}

// ListCoaches 教练与管理员，排期页选择评分人用
func (s *UserService) ListCoaches() ([]model.User, error) {
	return s.UserRepo.FindByRole(model.Coach, model.Admin)
}
