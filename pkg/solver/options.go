package solver

// Default solver parameters, in canonical units.
const (
	DefaultDisplayRadius  = 3.0
	DefaultExternalFactor = 2.2
	DefaultBaseLength     = 6.0
	DefaultElevation      = 20.0
	DefaultSamples        = 96
)

// Options tunes the canonical frame. Zero fields take the defaults.
type Options struct {
	DisplayRadius  float64 `json:"display_radius,omitempty" toml:"display_radius"`
	ExternalFactor float64 `json:"external_factor,omitempty" toml:"external_factor"`
	BaseLength     float64 `json:"base_length,omitempty" toml:"base_length"`
	Elevation      float64 `json:"elevation,omitempty" toml:"elevation"`
	Samples        int     `json:"samples,omitempty" toml:"samples"`
}

// WithDefaults returns o with every unset field filled in.
func (o Options) WithDefaults() Options {
	if o.DisplayRadius <= 0 {
		o.DisplayRadius = DefaultDisplayRadius
	}
	if o.ExternalFactor <= 1 {
		o.ExternalFactor = DefaultExternalFactor
	}
	if o.BaseLength <= 0 {
		o.BaseLength = DefaultBaseLength
	}
	if o.Elevation <= 0 || o.Elevation >= 90 {
		o.Elevation = DefaultElevation
	}
	if o.Samples < 8 {
		o.Samples = DefaultSamples
	}
	return o
}
