package zones

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bloomkart/storefront-backend/internal/repo"
	"github.com/bloomkart/storefront-backend/pkg/db/models"
)

// ZoneRepository defines persistence for delivery zones and their pincodes.
type ZoneRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error)
	GetByName(ctx context.Context, name string) (*models.DeliveryZone, error)
	List(ctx context.Context, includeInactive bool) ([]models.DeliveryZone, error)
	Create(ctx context.Context, zone *models.DeliveryZone, pincodes []string) error
	Update(ctx context.Context, zone *models.DeliveryZone, pincodes []string) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindByPincode(ctx context.Context, pincode string) (*models.DeliveryZone, error)
	PincodeOwners(ctx context.Context, pincodes []string) ([]models.DeliveryZonePincode, error)
}

// Repository is the gorm-backed ZoneRepository.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(base repo.Base) *Repository {
	return &Repository{Base: base}
}

func withPincodes(db *gorm.DB) *gorm.DB {
	return db.Preload("Pincodes", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("pincode ASC")
	})
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	if err := withPincodes(r.DB(ctx)).First(&zone, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *Repository) GetByName(ctx context.Context, name string) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	if err := withPincodes(r.DB(ctx)).First(&zone, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *Repository) List(ctx context.Context, includeInactive bool) ([]models.DeliveryZone, error) {
	query := withPincodes(r.DB(ctx)).Order("name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var zones []models.DeliveryZone
	if err := query.Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

// Create inserts the zone and its pincodes in one transaction. Pincodes are
// inserted explicitly so a duplicate surfaces as a unique violation instead
// of being skipped by association upserts.
func (r *Repository) Create(ctx context.Context, zone *models.DeliveryZone, pincodes []string) error {
	return r.Transaction(ctx, func(tx repo.Base) error {
		db := tx.DB(ctx)
		if err := db.Omit(clause.Associations).Create(zone).Error; err != nil {
			return err
		}
		rows, err := insertPincodes(db, zone.ID, pincodes)
		if err != nil {
			return err
		}
		zone.Pincodes = rows
		return nil
	})
}

// Update saves zone fields and replaces its pincode set.
func (r *Repository) Update(ctx context.Context, zone *models.DeliveryZone, pincodes []string) error {
	return r.Transaction(ctx, func(tx repo.Base) error {
		db := tx.DB(ctx)
		if err := db.Omit(clause.Associations).Save(zone).Error; err != nil {
			return err
		}
		if err := db.Where("zone_id = ?", zone.ID).Delete(&models.DeliveryZonePincode{}).Error; err != nil {
			return err
		}
		rows, err := insertPincodes(db, zone.ID, pincodes)
		if err != nil {
			return err
		}
		zone.Pincodes = rows
		return nil
	})
}

// Delete removes the zone and its pincodes. It reports whether the zone existed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := r.Transaction(ctx, func(tx repo.Base) error {
		db := tx.DB(ctx)
		// sqlite runs with foreign keys off, so cascade by hand
		if err := db.Where("zone_id = ?", id).Delete(&models.DeliveryZonePincode{}).Error; err != nil {
			return err
		}
		res := db.Where("id = ?", id).Delete(&models.DeliveryZone{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// FindByPincode returns the active zone owning pincode or gorm.ErrRecordNotFound.
func (r *Repository) FindByPincode(ctx context.Context, pincode string) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	err := r.DB(ctx).
		Joins("JOIN delivery_zone_pincodes ON delivery_zone_pincodes.zone_id = delivery_zones.id").
		Where("delivery_zone_pincodes.pincode = ? AND delivery_zones.is_active = ?", pincode, true).
		First(&zone).Error
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

// PincodeOwners lists the existing rows for any of pincodes.
func (r *Repository) PincodeOwners(ctx context.Context, pincodes []string) ([]models.DeliveryZonePincode, error) {
	if len(pincodes) == 0 {
		return nil, nil
	}
	var rows []models.DeliveryZonePincode
	if err := r.DB(ctx).Where("pincode IN ?", pincodes).Order("pincode ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func insertPincodes(db *gorm.DB, zoneID uuid.UUID, pincodes []string) ([]models.DeliveryZonePincode, error) {
	rows := make([]models.DeliveryZonePincode, 0, len(pincodes))
	for _, code := range pincodes {
		rows = append(rows, models.DeliveryZonePincode{Pincode: code, ZoneID: zoneID})
	}
	if len(rows) == 0 {
		return rows, nil
	}
	if err := db.Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
