package zones

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloomkart/storefront-backend/internal/pincode"
	"github.com/bloomkart/storefront-backend/pkg/db"
	"github.com/bloomkart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
)

// Service manages the delivery zones edited from the admin dashboard.
type Service interface {
	Create(ctx context.Context, input ZoneInput) (*ZoneDTO, error)
	Update(ctx context.Context, id uuid.UUID, input ZoneInput) (*ZoneDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*ZoneDTO, error)
	List(ctx context.Context, includeInactive bool) ([]ZoneDTO, error)
	UpsertByName(ctx context.Context, input ZoneInput) (*ZoneDTO, bool, error)
	FindByPincode(ctx context.Context, code string) (*models.DeliveryZone, error)
}

type service struct {
	repo ZoneRepository
}

// NewService builds a zone service backed by repo.
func NewService(repo ZoneRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("zone repository required")
	}
	return &service{repo: repo}, nil
}

// ZoneInput is the admin payload for a zone.
type ZoneInput struct {
	Name     string
	City     string
	Pincodes []string
	IsActive *bool
}

// ZoneDTO is the API shape of a zone.
type ZoneDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Pincodes  []string  `json:"pincodes"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toDTO(zone *models.DeliveryZone) *ZoneDTO {
	return &ZoneDTO{
		ID:        zone.ID,
		Name:      zone.Name,
		City:      zone.City,
		Pincodes:  zone.PincodeValues(),
		IsActive:  zone.IsActive,
		CreatedAt: zone.CreatedAt,
		UpdatedAt: zone.UpdatedAt,
	}
}

func (s *service) Create(ctx context.Context, input ZoneInput) (*ZoneDTO, error) {
	codes, err := normalizeInput(&input)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, input.Name, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.checkPincodes(ctx, codes, uuid.Nil); err != nil {
		return nil, err
	}

	zone := &models.DeliveryZone{Name: input.Name, City: input.City, IsActive: true}
	if input.IsActive != nil {
		zone.IsActive = *input.IsActive
	}
	if err := s.repo.Create(ctx, zone, codes); err != nil {
		return nil, mapWriteError(err, "create zone")
	}
	return toDTO(zone), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input ZoneInput) (*ZoneDTO, error) {
	zone, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	codes, err := normalizeInput(&input)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, input.Name, id); err != nil {
		return nil, err
	}
	if err := s.checkPincodes(ctx, codes, id); err != nil {
		return nil, err
	}

	zone.Name = input.Name
	zone.City = input.City
	if input.IsActive != nil {
		zone.IsActive = *input.IsActive
	}
	if err := s.repo.Update(ctx, zone, codes); err != nil {
		return nil, mapWriteError(err, "update zone")
	}
	return toDTO(zone), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "zone id is required")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete zone")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "zone not found")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ZoneDTO, error) {
	zone, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(zone), nil
}

func (s *service) List(ctx context.Context, includeInactive bool) ([]ZoneDTO, error) {
	zones, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list zones")
	}
	out := make([]ZoneDTO, 0, len(zones))
	for i := range zones {
		out = append(out, *toDTO(&zones[i]))
	}
	return out, nil
}

// UpsertByName creates the zone or replaces the one with the same name.
// It reports whether a new zone was created.
func (s *service) UpsertByName(ctx context.Context, input ZoneInput) (*ZoneDTO, bool, error) {
	existing, err := s.repo.GetByName(ctx, strings.TrimSpace(input.Name))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		dto, err := s.Create(ctx, input)
		return dto, err == nil, err
	}
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load zone")
	}
	dto, err := s.Update(ctx, existing.ID, input)
	return dto, false, err
}

// FindByPincode returns the active zone that serves code.
func (s *service) FindByPincode(ctx context.Context, code string) (*models.DeliveryZone, error) {
	normalized, err := pincode.Validate(code)
	if err != nil {
		return nil, err
	}
	zone, err := s.repo.FindByPincode(ctx, normalized)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no delivery zone serves this pincode")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find zone by pincode")
	}
	return zone, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "zone id is required")
	}
	zone, err := s.repo.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "zone not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load zone")
	}
	return zone, nil
}

func (s *service) checkName(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.repo.GetByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check zone name")
	}
	if existing.ID != self {
		return pkgerrors.New(pkgerrors.CodeConflict, "a zone with this name already exists")
	}
	return nil
}

// checkPincodes refuses pincodes already owned by another zone.
func (s *service) checkPincodes(ctx context.Context, codes []string, self uuid.UUID) error {
	owners, err := s.repo.PincodeOwners(ctx, codes)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pincodes")
	}
	taken := []string{}
	for _, owner := range owners {
		if owner.ZoneID != self {
			taken = append(taken, owner.Pincode)
		}
	}
	if len(taken) > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "pincodes already belong to another zone").
			WithDetails(map[string]any{"pincodes": taken})
	}
	return nil
}

func normalizeInput(input *ZoneInput) ([]string, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.City = strings.TrimSpace(input.City)
	if input.Name == "" || input.City == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and city are required")
	}

	seen := map[string]struct{}{}
	codes := make([]string, 0, len(input.Pincodes))
	invalid := []string{}
	for _, raw := range input.Pincodes {
		code, err := pincode.Validate(raw)
		if err != nil {
			invalid = append(invalid, raw)
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	if len(invalid) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, pincode.InvalidFormatMessage).
			WithDetails(map[string]any{"pincodes": invalid})
	}
	sort.Strings(codes)
	return codes, nil
}

func mapWriteError(err error, action string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "zone name or pincode already in use")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
