package schema

import (
	"fmt"
	"sort"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/spf13/viper"
)

// DefaultHeaderScanWindow is how many leading rows header detection inspects.
const DefaultHeaderScanWindow = 10

// MappingProvider resolves a source type to its canonical schema.
type MappingProvider interface {
	Mapping(sourceType string) (domain.SourceMapping, error)
	SourceTypes() []string
}

type staticProvider struct {
	mappings map[string]domain.SourceMapping
}

// NewStaticProvider builds a provider from mappings; later entries replace earlier
// ones with the same source type.
func NewStaticProvider(mappings ...domain.SourceMapping) MappingProvider {
	p := &staticProvider{mappings: make(map[string]domain.SourceMapping, len(mappings))}
	for _, m := range mappings {
		p.mappings[m.SourceType] = m
	}
	return p
}

// DefaultProvider serves the built-in channel mappings.
func DefaultProvider() MappingProvider {
	return NewStaticProvider(DefaultMappings()...)
}

func (p *staticProvider) Mapping(sourceType string) (domain.SourceMapping, error) {
	m, ok := p.mappings[sourceType]
	if !ok {
		return domain.SourceMapping{}, &domain.SchemaError{SourceType: sourceType, Reason: "no registered mapping"}
	}
	return m, nil
}

func (p *staticProvider) SourceTypes() []string {
	types := make([]string, 0, len(p.mappings))
	for t := range p.mappings {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

type mappingFile struct {
	Sources []domain.SourceMapping `mapstructure:"sources"`
}

// LoadMappings reads source mappings from a YAML/TOML/JSON file. Mappings in the
// file override the built-in ones of the same source type.
func LoadMappings(path string) (MappingProvider, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read mappings file: %w", err)
	}

	var file mappingFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to parse mappings file: %w", err)
	}

	for _, m := range file.Sources {
		if err := validateMapping(m); err != nil {
			return nil, err
		}
	}

	return NewStaticProvider(append(DefaultMappings(), file.Sources...)...), nil
}

func validateMapping(m domain.SourceMapping) error {
	if m.SourceType == "" {
		return fmt.Errorf("mapping without source_type")
	}
	dates := 0
	for _, f := range m.Fields {
		switch f.Kind {
		case domain.FieldKindDate:
			dates++
		case domain.FieldKindDimension, domain.FieldKindMetric:
		default:
			return fmt.Errorf("mapping %q: field %q has unknown kind %q", m.SourceType, f.Role, f.Kind)
		}
		if f.Role == "" {
			return fmt.Errorf("mapping %q: field without role", m.SourceType)
		}
	}
	if dates != 1 {
		return fmt.Errorf("mapping %q: expected exactly one date field, got %d", m.SourceType, dates)
	}
	return nil
}
