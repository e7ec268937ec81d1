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
	ErrGuideNotFound  = errors.New("guide not found")
	ErrDocNumberTaken = errors.New("doc number already in use")
	ErrTitleRequired  = errors.New("title is required")
	ErrDocNumRequired = errors.New("doc number is required")
	ErrBadJobTypeRef  = errors.New("referenced job type does not exist")
)

type GuideService struct {
	db    *gorm.DB
	files *storage.Store
}

func NewGuideService(db *gorm.DB, files *storage.Store) *GuideService {
	return &GuideService{db: db, files: files}
}

// List returns guides matching the filter, always ordered by doc number.
func (s *GuideService) List(filter dto.GuideFilter) ([]models.Guide, error) {
	query := s.db.Model(&models.Guide{}).Preload("JobType")
	if filter.JobTypeID != nil {
		query = query.Where("job_type_id = ?", *filter.JobTypeID)
	}
	if filter.IsPinned != nil {
		query = query.Where("is_pinned = ?", *filter.IsPinned)
	}

	guides := []models.Guide{}
	if err := query.Order("doc_number ASC").Find(&guides).Error; err != nil {
		return nil, fmt.Errorf("failed to list guides: %w", err)
	}
	return guides, nil
}

func (s *GuideService) Get(id uuid.UUID) (*models.Guide, error) {
	var guide models.Guide
	if err := s.db.Preload("JobType").First(&guide, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuideNotFound
		}
		return nil, err
	}
	return &guide, nil
}

func (s *GuideService) Create(ctx authctx.AuthContext, req *dto.CreateGuideRequest, filePath string) (*models.Guide, error) {
	if !ctx.IsAdmin() {
		return nil, ErrForbidden
	}
	if req.DocNumber == "" {
		return nil, ErrDocNumRequired
	}
	if req.Title == "" {
		return nil, ErrTitleRequired
	}
	if req.JobTypeID != nil {
		if err := s.checkJobType(*req.JobTypeID); err != nil {
			return nil, err
		}
	}

	var existing models.Guide
	if err := s.db.Where("doc_number = ?", req.DocNumber).First(&existing).Error; err == nil {
		return nil, ErrDocNumberTaken
	}

	guide := models.Guide{
		ID:            uuid.New(),
		JobTypeID:     req.JobTypeID,
		System:        req.System,
		Subsystem:     req.Subsystem,
		EquipmentType: req.EquipmentType,
		DocNumber:     req.DocNumber,
		Title:         req.Title,
		Department:    req.Department,
		Owner:         req.Owner,
		FilePath:      filePath,
		IsPinned:      req.IsPinned,
	}

	if err := s.db.Create(&guide).Error; err != nil {
		return nil, fmt.Errorf("failed to create guide: %w", err)
	}

	slog.Info("guide created", "doc_number", guide.DocNumber, "employee_id", ctx.EmployeeID)
	return &guide, nil
}

func (s *GuideService) Update(ctx authctx.AuthContext, id uuid.UUID, req *dto.UpdateGuideRequest, filePath string) (*models.Guide, error) {
	if !ctx.IsAdmin() {
		return nil, ErrForbidden
	}

	var guide models.Guide
	if err := s.db.First(&guide, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuideNotFound
		}
		return nil, err
	}

	changes := map[string]any{}
	if req.DocNumber != nil {
		if *req.DocNumber == "" {
			return nil, ErrDocNumRequired
		}
		var other models.Guide
		err := s.db.Where("doc_number = ? AND id <> ?", *req.DocNumber, id).First(&other).Error
		if err == nil {
			return nil, ErrDocNumberTaken
		}
		changes["doc_number"] = *req.DocNumber
	}
	if req.ClearJobType {
		changes["job_type_id"] = nil
	} else if req.JobTypeID != nil {
		if err := s.checkJobType(*req.JobTypeID); err != nil {
			return nil, err
		}
		changes["job_type_id"] = *req.JobTypeID
	}
	if req.System != nil {
		changes["system"] = *req.System
	}
	if req.Subsystem != nil {
		changes["subsystem"] = *req.Subsystem
	}
	if req.EquipmentType != nil {
		changes["equipment_type"] = *req.EquipmentType
	}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, ErrTitleRequired
		}
		changes["title"] = *req.Title
	}
	if req.Department != nil {
		changes["department"] = *req.Department
	}
	if req.Owner != nil {
		changes["owner"] = *req.Owner
	}
	if req.IsPinned != nil {
		changes["is_pinned"] = *req.IsPinned
	}
	if filePath != "" {
		changes["file_path"] = filePath
	}

	if len(changes) > 0 {
		if err := s.db.Model(&guide).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("failed to update guide: %w", err)
		}
	}

	if err := s.db.Preload("JobType").First(&guide, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &guide, nil
}

// Delete removes a guide and its whole device/fault/step subtree in one
// transaction. The subtree is either fully removed or left untouched.
func (s *GuideService) Delete(ctx authctx.AuthContext, id uuid.UUID) error {
	if !ctx.IsAdmin() {
		return ErrForbidden
	}

	var guide models.Guide
	if err := s.db.First(&guide, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGuideNotFound
		}
		return err
	}

	// Collect attachment paths before the rows disappear. Disk cleanup
	// happens after commit; a crash in between leaves an orphan file,
	// never a dangling record.
	var stepPaths []string
	s.db.Model(&models.ProcedureStep{}).
		Where("fault_case_id IN (?)", s.faultIDsByGuide(id)).
		Where("file_path <> ''").
		Pluck("file_path", &stepPaths)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("fault_case_id IN (?)", faultIDsByGuide(tx, id)).
			Delete(&models.ProcedureStep{}).Error; err != nil {
			return err
		}
		if err := tx.Where("device_id IN (?)", deviceIDsByGuide(tx, id)).
			Delete(&models.FaultCase{}).Error; err != nil {
			return err
		}
		if err := tx.Where("guide_id = ?", id).Delete(&models.Device{}).Error; err != nil {
			return err
		}
		return tx.Delete(&guide).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete guide: %w", err)
	}

	for _, p := range stepPaths {
		if err := s.files.Remove(p); err != nil {
			slog.Error("attachment cleanup failed", "path", p, "error", err)
		}
	}
	if err := s.files.Remove(guide.FilePath); err != nil {
		slog.Error("attachment cleanup failed", "path", guide.FilePath, "error", err)
	}

	slog.Info("guide deleted", "doc_number", guide.DocNumber, "employee_id", ctx.EmployeeID)
	return nil
}

func (s *GuideService) checkJobType(id uuid.UUID) error {
	var jt models.JobType
	if err := s.db.First(&jt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBadJobTypeRef
		}
		return err
	}
	return nil
}

func (s *GuideService) faultIDsByGuide(guideID uuid.UUID) *gorm.DB {
	return faultIDsByGuide(s.db, guideID)
}

// Subqueries shared by the cascading deletes.

func deviceIDsByGuide(db *gorm.DB, guideID uuid.UUID) *gorm.DB {
	return db.Model(&models.Device{}).Select("id").Where("guide_id = ?", guideID)
}

func faultIDsByGuide(db *gorm.DB, guideID uuid.UUID) *gorm.DB {
	return db.Model(&models.FaultCase{}).Select("id").
		Where("device_id IN (?)", deviceIDsByGuide(db, guideID))
}
