package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/yuchenghsu/signalguide-backend/internal/authctx"
	"github.com/yuchenghsu/signalguide-backend/internal/dto"
	"github.com/yuchenghsu/signalguide-backend/internal/models"
	"github.com/yuchenghsu/signalguide-backend/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrStepNotFound = errors.New("procedure step not found")
	ErrBadFaultRef  = errors.New("referenced fault case does not exist")
	ErrStepEmpty    = errors.New("instruction or attachment is required")
)

type StepService struct {
	db    *gorm.DB
	files *storage.Store
}

func NewStepService(db *gorm.DB, files *storage.Store) *StepService {
	return &StepService{db: db, files: files}
}

// ListByFault returns a fault case's steps in display order. Step order
// values may repeat; creation time breaks ties.
func (s *StepService) ListByFault(faultID uuid.UUID) ([]models.ProcedureStep, error) {
	steps := []models.ProcedureStep{}
	if err := s.db.Where("fault_case_id = ?", faultID).
		Order("step_order ASC, created_at ASC").
		Find(&steps).Error; err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	return steps, nil
}

func (s *StepService) Get(id uuid.UUID) (*models.ProcedureStep, error) {
	var step models.ProcedureStep
	if err := s.db.First(&step, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStepNotFound
		}
		return nil, err
	}
	return &step, nil
}

func (s *StepService) Create(ctx authctx.AuthContext, req *dto.CreateStepRequest, filePath string) (*models.ProcedureStep, error) {
	if !ctx.IsAdmin() {
		return nil, ErrForbidden
	}
	if req.Instruction == "" && filePath == "" {
		return nil, ErrStepEmpty
	}
	if err := s.checkFault(req.FaultCaseID); err != nil {
		return nil, err
	}

	step := models.ProcedureStep{
		ID:          uuid.New(),
		FaultCaseID: req.FaultCaseID,
		StepOrder:   req.StepOrder,
		Instruction: req.Instruction,
		FilePath:    filePath,
	}
	if err := s.db.Create(&step).Error; err != nil {
		return nil, fmt.Errorf("failed to create step: %w", err)
	}
	return &step, nil
}

func (s *StepService) Update(ctx authctx.AuthContext, id uuid.UUID, req *dto.UpdateStepRequest, filePath string) (*models.ProcedureStep, error) {
	if !ctx.IsAdmin() {
		return nil, ErrForbidden
	}

	var step models.ProcedureStep
	if err := s.db.First(&step, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStepNotFound
		}
		return nil, err
	}

	changes := map[string]any{}
	if req.FaultCaseID != nil {
		if err := s.checkFault(*req.FaultCaseID); err != nil {
			return nil, err
		}
		changes["fault_case_id"] = *req.FaultCaseID
	}
	if req.StepOrder != nil {
		changes["step_order"] = *req.StepOrder
	}
	if req.Instruction != nil {
		changes["instruction"] = *req.Instruction
	}
	oldPath := ""
	if filePath != "" {
		oldPath = step.FilePath
		changes["file_path"] = filePath
	}

	if len(changes) > 0 {
		if err := s.db.Model(&step).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("failed to update step: %w", err)
		}
	}

	if oldPath != "" && oldPath != filePath {
		if err := s.files.Remove(oldPath); err != nil {
			slog.Error("attachment cleanup failed", "path", oldPath, "error", err)
		}
	}
	return &step, nil
}

func (s *StepService) Delete(ctx authctx.AuthContext, id uuid.UUID) error {
	if !ctx.IsAdmin() {
		return ErrForbidden
	}

	var step models.ProcedureStep
	if err := s.db.First(&step, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStepNotFound
		}
		return err
	}

	if err := s.db.Delete(&step).Error; err != nil {
		return fmt.Errorf("failed to delete step: %w", err)
	}

	if err := s.files.Remove(step.FilePath); err != nil {
		slog.Error("attachment cleanup failed", "path", step.FilePath, "error", err)
	}
	return nil
}

func (s *StepService) checkFault(id uuid.UUID) error {
	var fault models.FaultCase
	if err := s.db.First(&fault, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBadFaultRef
		}
		return err
	}
	return nil
}
