package catalog

import (
	"context"
	"os"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Sweets []struct {
		Name     string  `yaml:"name"`
		Category string  `yaml:"category"`
		Price    float64 `yaml:"price"`
		Quantity int     `yaml:"quantity"`
	} `yaml:"sweets"`
}

// SeedFromFile loads the sample catalog, but only into an empty table so
// restarts never duplicate or resurrect rows.
func (s *Store) SeedFromFile(ctx context.Context, path string) error {
	n, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return err
	}
	for _, row := range sf.Sweets {
		if row.Name == "" {
			continue
		}
		sw := Sweet{
			Name:     row.Name,
			Category: row.Category,
			Price:    row.Price,
			Quantity: row.Quantity,
		}
		if err := s.Create(ctx, &sw); err != nil {
			return err
		}
	}
	return nil
}
