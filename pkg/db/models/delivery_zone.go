package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeliveryZone groups the pincodes the shop delivers to.
type DeliveryZone struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Name      string                `gorm:"column:name;not null;uniqueIndex:delivery_zones_name_key"`
	City      string                `gorm:"column:city;not null"`
	IsActive  bool                  `gorm:"column:is_active;not null"`
	Pincodes  []DeliveryZonePincode `gorm:"foreignKey:ZoneID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (DeliveryZone) TableName() string {
	return "delivery_zones"
}

// BeforeCreate assigns an id when the caller did not.
func (z *DeliveryZone) BeforeCreate(*gorm.DB) error {
	if z.ID == uuid.Nil {
		z.ID = uuid.New()
	}
	return nil
}

// PincodeValues flattens the associated pincodes.
func (z *DeliveryZone) PincodeValues() []string {
	out := make([]string, 0, len(z.Pincodes))
	for _, p := range z.Pincodes {
		out = append(out, p.Pincode)
	}
	return out
}

// DeliveryZonePincode maps one pincode to exactly one zone.
type DeliveryZonePincode struct {
	Pincode   string    `gorm:"column:pincode;primaryKey"`
	ZoneID    uuid.UUID `gorm:"column:zone_id;type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (DeliveryZonePincode) TableName() string {
	return "delivery_zone_pincodes"
}
