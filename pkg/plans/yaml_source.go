package plans

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type yamlFileSource struct {
	path string
}

// NewYAMLFileSource returns a CatalogSource that reads plan definitions from
// a YAML file. The file holds a top-level "plans" list:
//
//	plans:
//	  - key: PRO
//	    name: Pro
//	    price: {amount: 2900, currency: USD}
//	    price_id: price_pro_monthly
//	    blog_credits: 30
//	    word_limit: 50000
//	    team_seats: 1
//	    tier: individual
//
// Deployments override the built-in catalog with this file; validation still
// happens in NewCatalog.
func NewYAMLFileSource(path string) CatalogSource {
	return &yamlFileSource{path: path}
}

func (s *yamlFileSource) Load(_ context.Context) ([]Plan, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, fmt.Errorf("read %s: %w", s.path, err))
	}

	var doc struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, fmt.Errorf("parse %s: %w", s.path, err))
	}

	return doc.Plans, nil
}
