package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/yuchenghsu/signalguide-backend/internal/authctx"
	"github.com/yuchenghsu/signalguide-backend/internal/dto"
	"github.com/yuchenghsu/signalguide-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrJobTypeNotFound  = errors.New("job type not found")
	ErrJobTypeNameTaken = errors.New("job type name already in use")
	ErrJobTypeNameEmpty = errors.New("job type name is required")
)

type JobTypeService struct {
	db *gorm.DB
}

func NewJobTypeService(db *gorm.DB) *JobTypeService {
	return &JobTypeService{db: db}
}

// List returns all job types in creation order.
func (s *JobTypeService) List() ([]models.JobType, error) {
	jobTypes := []models.JobType{}
	if err := s.db.Order("created_at ASC").Find(&jobTypes).Error; err != nil {
		return nil, fmt.Errorf("failed to list job types: %w", err)
	}
	return jobTypes, nil
}

func (s *JobTypeService) Get(id uuid.UUID) (*models.JobType, error) {
	var jt models.JobType
	if err := s.db.First(&jt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobTypeNotFound
		}
		return nil, err
	}
	return &jt, nil
}

func (s *JobTypeService) Create(ctx authctx.AuthContext, req *dto.JobTypeRequest) (*models.JobType, error) {
	if !ctx.IsAdmin() {
		return nil, ErrForbidden
	}
	if req.Name == "" {
		return nil, ErrJobTypeNameEmpty
	}

	var existing models.JobType
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, ErrJobTypeNameTaken
	}

	jt := models.JobType{ID: uuid.New(), Name: req.Name}
	if err := s.db.Create(&jt).Error; err != nil {
		return nil, fmt.Errorf("failed to create job type: %w", err)
	}
	return &jt, nil
}

func (s *JobTypeService) Update(ctx authctx.AuthContext, id uuid.UUID, req *dto.JobTypeRequest) (*models.JobType, error) {
	if !ctx.IsAdmin() {
		return nil, ErrForbidden
	}
	if req.Name == "" {
		return nil, ErrJobTypeNameEmpty
	}

	var jt models.JobType
	if err := s.db.First(&jt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobTypeNotFound
		}
		return nil, err
	}

	var other models.JobType
	if err := s.db.Where("name = ? AND id <> ?", req.Name, id).First(&other).Error; err == nil {
		return nil, ErrJobTypeNameTaken
	}

	if err := s.db.Model(&jt).Update("name", req.Name).Error; err != nil {
		return nil, fmt.Errorf("failed to update job type: %w", err)
	}
	return &jt, nil
}

// Delete removes a job type. Guides referencing it keep existing without
// a category: the reference is nulled out in the same transaction.
func (s *JobTypeService) Delete(ctx authctx.AuthContext, id uuid.UUID) error {
	if !ctx.IsAdmin() {
		return ErrForbidden
	}

	var jt models.JobType
	if err := s.db.First(&jt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrJobTypeNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Guide{}).
			Where("job_type_id = ?", id).
			Update("job_type_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&jt).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete job type: %w", err)
	}

	slog.Info("job type deleted", "name", jt.Name, "employee_id", ctx.EmployeeID)
	return nil
}
