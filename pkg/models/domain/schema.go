package domain

type FieldKind string

const (
	FieldKindDate      FieldKind = "date"
	FieldKindDimension FieldKind = "dimension"
	FieldKindMetric    FieldKind = "metric"
)

// FieldSpec is one canonical field of a source schema. Synonyms are tried in order.
type FieldSpec struct {
	Role     string    `mapstructure:"role"`
	Kind     FieldKind `mapstructure:"kind"`
	Display  string    `mapstructure:"display"`
	Synonyms []string  `mapstructure:"synonyms"`
}

// DisplayName returns the human label of the field.
func (f FieldSpec) DisplayName() string {
	if f.Display != "" {
		return f.Display
	}
	return f.Role
}

// SourceMapping is the canonical schema of one source type.
type SourceMapping struct {
	SourceType       string      `mapstructure:"source_type"`
	Channel          string      `mapstructure:"channel"`
	Fields           []FieldSpec `mapstructure:"fields"`
	Markers          []string    `mapstructure:"markers"`
	HeaderScanWindow int         `mapstructure:"header_scan_window"`
}

// FieldsOf returns the fields of the given kind in schema order.
func (m SourceMapping) FieldsOf(kind FieldKind) []FieldSpec {
	var out []FieldSpec
	for _, f := range m.Fields {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Field looks a field up by role.
func (m SourceMapping) Field(role string) (FieldSpec, bool) {
	for _, f := range m.Fields {
		if f.Role == role {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// ChannelName returns the channel label records of this source are tagged with.
func (m SourceMapping) ChannelName() string {
	if m.Channel != "" {
		return m.Channel
	}
	return m.SourceType
}

// RatioSpec is a per-period derived value Numerator / Denominator, e.g. ROAS.
type RatioSpec struct {
	Name        string `mapstructure:"name" json:"name"`
	Display     string `mapstructure:"display" json:"display"`
	Numerator   string `mapstructure:"numerator" json:"numerator"`
	Denominator string `mapstructure:"denominator" json:"denominator"`
}

func (r RatioSpec) DisplayName() string {
	if r.Display != "" {
		return r.Display
	}
	return r.Name
}
