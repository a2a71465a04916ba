package config

import (
	"fmt"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// Profiles reads datasource connections from an ini file:
//
//	[warehouse]
//	driver = postgres
//	dsn    = postgres://atlas@localhost/sales?sslmode=disable
type Profiles interface {
	Names() []string
	Get(name string) (domain.Profile, error)
}

type iniProfiles struct {
	cfg *ini.File
}

func NewProfiles(path string) (Profiles, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	return &iniProfiles{cfg: cfg}, nil
}

func (p *iniProfiles) Names() []string {
	var names []string
	for _, section := range p.cfg.Sections() {
		if len(section.Keys()) > 0 {
			names = append(names, section.Name())
		}
	}
	return names
}

func (p *iniProfiles) Get(name string) (domain.Profile, error) {
	section, err := p.cfg.GetSection(name)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("profile %s not found", name)
	}

	driver := section.Key("driver").String()
	if driver == "" {
		return domain.Profile{}, fmt.Errorf("profile %s has no driver", name)
	}

	settings := make(map[string]string)
	for _, key := range section.Keys() {
		switch key.Name() {
		case "driver", "dsn":
		default:
			settings[key.Name()] = key.String()
		}
	}

	return domain.Profile{
		Name:     name,
		Driver:   driver,
		DSN:      section.Key("dsn").String(),
		Settings: settings,
	}, nil
}
