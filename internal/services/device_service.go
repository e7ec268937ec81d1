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
	ErrDeviceNotFound  = errors.New("device not found")
	ErrBadGuideRef     = errors.New("referenced guide does not exist")
	ErrDeviceNameEmpty = errors.New("device name is required")
)

type DeviceService struct {
	db *gorm.DB
}

func NewDeviceService(db *gorm.DB) *DeviceService {
	return &DeviceService{db: db}
}

func (s *DeviceService) List() ([]models.Device, error) {
	devices := []models.Device{}
	if err := s.db.Order("created_at ASC").Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return devices, nil
}

// ListByGuide returns the devices of a guide. An unknown guide yields an
// empty slice, not an error.
func (s *DeviceService) ListByGuide(guideID uuid.UUID) ([]models.Device, error) {
	devices := []models.Device{}
	if err := s.db.Where("guide_id = ?", guideID).Order("created_at ASC").Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return devices, nil
}

func (s *DeviceService) Get(id uuid.UUID) (*models.Device, error) {
	var device models.Device
	if err := s.db.First(&device, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return &device, nil
}

func (s *DeviceService) Create(ctx authctx.AuthContext, req *dto.CreateDeviceRequest) (*models.Device, error) {
	if !ctx.IsAdmin() {
		return nil, ErrForbidden
	}
	if req.Name == "" {
		return nil, ErrDeviceNameEmpty
	}
	if err := s.checkGuide(req.GuideID); err != nil {
		return nil, err
	}

	device := models.Device{
		ID:      uuid.New(),
		GuideID: req.GuideID,
		Name:    req.Name,
	}
	if err := s.db.Create(&device).Error; err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}
	return &device, nil
}

func (s *DeviceService) Update(ctx authctx.AuthContext, id uuid.UUID, req *dto.UpdateDeviceRequest) (*models.Device, error) {
	if !ctx.IsAdmin() {
		return nil, ErrForbidden
	}

	var device models.Device
	if err := s.db.First(&device, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}

	changes := map[string]any{}
	if req.GuideID != nil {
		if err := s.checkGuide(*req.GuideID); err != nil {
			return nil, err
		}
		changes["guide_id"] = *req.GuideID
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrDeviceNameEmpty
		}
		changes["name"] = *req.Name
	}

	if len(changes) > 0 {
		if err := s.db.Model(&device).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("failed to update device: %w", err)
		}
	}
	return &device, nil
}

// Delete removes a device and its fault cases and steps in one
// transaction.
func (s *DeviceService) Delete(ctx authctx.AuthContext, id uuid.UUID) error {
	if !ctx.IsAdmin() {
		return ErrForbidden
	}

	var device models.Device
	if err := s.db.First(&device, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeviceNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		faultIDs := tx.Model(&models.FaultCase{}).Select("id").Where("device_id = ?", id)
		if err := tx.Where("fault_case_id IN (?)", faultIDs).Delete(&models.ProcedureStep{}).Error; err != nil {
			return err
		}
		if err := tx.Where("device_id = ?", id).Delete(&models.FaultCase{}).Error; err != nil {
			return err
		}
		return tx.Delete(&device).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	return nil
}

func (s *DeviceService) checkGuide(id uuid.UUID) error {
	var guide models.Guide
	if err := s.db.First(&guide, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBadGuideRef
		}
		return err
	}
	return nil
}
