package zones

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
)

// SeedFile is the YAML layout accepted by the zone importer.
//
//	zones:
//	  - name: Bengaluru South
//	    city: Bengaluru
//	    active: true
//	    pincodes: ["560041", "560034"]
type SeedFile struct {
	Zones []SeedZone `yaml:"zones"`
}

type SeedZone struct {
	Name     string   `yaml:"name"`
	City     string   `yaml:"city"`
	Active   *bool    `yaml:"active"`
	Pincodes []string `yaml:"pincodes"`
}

// SeedResult counts what an import did.
type SeedResult struct {
	Created int
	Updated int
}

// ParseSeed decodes a zone seed document. Unknown keys are rejected.
func ParseSeed(r io.Reader) (*SeedFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file SeedFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "seed file is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid seed file")
	}
	if len(file.Zones) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seed file has no zones")
	}
	return &file, nil
}

// Seed upserts every zone in file by name. It stops at the first failure.
func Seed(ctx context.Context, svc Service, file *SeedFile) (SeedResult, error) {
	var result SeedResult
	for _, z := range file.Zones {
		_, created, err := svc.UpsertByName(ctx, ZoneInput{
			Name:     z.Name,
			City:     z.City,
			Pincodes: z.Pincodes,
			IsActive: z.Active,
		})
		if err != nil {
			return result, fmt.Errorf("seed zone %q: %w", z.Name, err)
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}
