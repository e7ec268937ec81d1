package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yuchenghsu/signalguide-backend/internal/authctx"
	"github.com/yuchenghsu/signalguide-backend/internal/dto"
	"github.com/yuchenghsu/signalguide-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrFaultNotFound = errors.New("fault case not found")
	ErrBadDeviceRef  = errors.New("referenced device does not exist")
	ErrDescRequired  = errors.New("description is required")
)

type FaultService struct {
	db *gorm.DB
}

func NewFaultService(db *gorm.DB) *FaultService {
	return &FaultService{db: db}
}

func (s *FaultService) List() ([]models.FaultCase, error) {
	faults := []models.FaultCase{}
	if err := s.db.Order("created_at ASC").Find(&faults).Error; err != nil {
		return nil, fmt.Errorf("failed to list fault cases: %w", err)
	}
	return faults, nil
}

// ListByDevice returns the fault cases of a device; an unknown device
// yields an empty slice.
func (s *FaultService) ListByDevice(deviceID uuid.UUID) ([]models.FaultCase, error) {
	faults := []models.FaultCase{}
	if err := s.db.Where("device_id = ?", deviceID).Order("created_at ASC").Find(&faults).Error; err != nil {
		return nil, fmt.Errorf("failed to list fault cases: %w", err)
	}
	return faults, nil
}

func (s *FaultService) Get(id uuid.UUID) (*models.FaultCase, error) {
	var fault models.FaultCase
	if err := s.db.First(&fault, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFaultNotFound
		}
		return nil, err
	}
	return &fault, nil
}

func (s *FaultService) Create(ctx authctx.AuthContext, req *dto.CreateFaultRequest) (*models.FaultCase, error) {
	if !ctx.IsAdmin() {
		return nil, ErrForbidden
	}
	if req.Description == "" {
		return nil, ErrDescRequired
	}
	if err := s.checkDevice(req.DeviceID); err != nil {
		return nil, err
	}

	fault := models.FaultCase{
		ID:          uuid.New(),
		DeviceID:    req.DeviceID,
		Description: req.Description,
	}
	if err := s.db.Create(&fault).Error; err != nil {
		return nil, fmt.Errorf("failed to create fault case: %w", err)
	}
	return &fault, nil
}

func (s *FaultService) Update(ctx authctx.AuthContext, id uuid.UUID, req *dto.UpdateFaultRequest) (*models.FaultCase, error) {
	if !ctx.IsAdmin() {
		return nil, ErrForbidden
	}

	var fault models.FaultCase
	if err := s.db.First(&fault, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFaultNotFound
		}
		return nil, err
	}

	changes := map[string]any{}
	if req.DeviceID != nil {
		if err := s.checkDevice(*req.DeviceID); err != nil {
			return nil, err
		}
		changes["device_id"] = *req.DeviceID
	}
	if req.Description != nil {
		if *req.Description == "" {
			return nil, ErrDescRequired
		}
		changes["description"] = *req.Description
	}

	if len(changes) > 0 {
		if err := s.db.Model(&fault).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("failed to update fault case: %w", err)
		}
	}
	return &fault, nil
}

// Delete removes a fault case and its steps in one transaction.
func (s *FaultService) Delete(ctx authctx.AuthContext, id uuid.UUID) error {
	if !ctx.IsAdmin() {
		return ErrForbidden
	}

	var fault models.FaultCase
	if err := s.db.First(&fault, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFaultNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("fault_case_id = ?", id).Delete(&models.ProcedureStep{}).Error; err != nil {
			return err
		}
		return tx.Delete(&fault).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete fault case: %w", err)
	}
	return nil
}

func (s *FaultService) checkDevice(id uuid.UUID) error {
	var device models.Device
	if err := s.db.First(&device, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBadDeviceRef
		}
		return err
	}
	return nil
}
