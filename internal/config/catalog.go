package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alexanderramin/breakdesk/internal/domain"
	"gopkg.in/yaml.v3"
)

// Catalog is a seed file of agents and break types.
//
//	users:
//	  - id: "7"
//	    name: Agent Seven
//	    role: agent
//	break_types:
//	  - id: "1"
//	    name: Coffee
//	    duration: 15m
type Catalog struct {
	Users      []CatalogUser      `yaml:"users"`
	BreakTypes []CatalogBreakType `yaml:"break_types"`
}

type CatalogUser struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

// CatalogBreakType sets its allotment with either duration (a Go duration
// string such as "15m") or duration_sec.
type CatalogBreakType struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Duration    string `yaml:"duration"`
	DurationSec int64  `yaml:"duration_sec"`
}

// LoadCatalog reads and parses a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return &c, nil
}

// Domain converts the catalog entries. Durations are truncated to whole
// seconds.
func (c *Catalog) Domain() ([]*domain.User, []*domain.BreakType, error) {
	users := make([]*domain.User, 0, len(c.Users))
	for _, u := range c.Users {
		users = append(users, &domain.User{
			ID:   strings.TrimSpace(u.ID),
			Name: u.Name,
			Role: domain.UserRole(strings.ToLower(strings.TrimSpace(u.Role))),
		})
	}

	types := make([]*domain.BreakType, 0, len(c.BreakTypes))
	for _, b := range c.BreakTypes {
		sec := b.DurationSec
		if b.Duration != "" {
			d, err := time.ParseDuration(b.Duration)
			if err != nil {
				return nil, nil, &domain.ValidationError{Field: "duration", Value: b.Duration, Reason: "expected a duration such as 15m"}
			}
			sec = int64(d / time.Second)
		}
		types = append(types, &domain.BreakType{
			ID:          strings.TrimSpace(b.ID),
			Name:        b.Name,
			DurationSec: sec,
		})
	}
	return users, types, nil
}
