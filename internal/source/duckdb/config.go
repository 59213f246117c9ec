package duckdb

import (
	"fmt"
	"regexp"

	"github.com/go-viper/mapstructure/v2"
)

// settingName matches the DuckDB setting names accepted in Settings. Names
// are spliced into SET statements, so nothing else is allowed.
var settingName = regexp.MustCompile(`^[a-z_]+$`)

// Params holds DuckDB-specific configuration.
// Parsed from source.Config.Params using mapstructure.
type Params struct {
	// Extension of sheet files in a directory source (default ".csv")
	Extension string `mapstructure:"extension"`

	// Delimiter overrides CSV delimiter sniffing
	Delimiter string `mapstructure:"delimiter"`

	// AllVarchar reads every CSV column as text, disabling type inference
	AllVarchar bool `mapstructure:"all_varchar"`

	// Settings to apply at session level (e.g., memory_limit, threads)
	Settings map[string]string `mapstructure:"settings"`
}

// DecodeParams decodes raw params, applying defaults.
func DecodeParams(raw map[string]any) (Params, error) {
	p := Params{Extension: ".csv"}
	if len(raw) == 0 {
		return p, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return p, err
	}
	if err := dec.Decode(raw); err != nil {
		return p, fmt.Errorf("invalid duckdb params: %w", err)
	}
	for k := range p.Settings {
		if !settingName.MatchString(k) {
			return p, fmt.Errorf("invalid duckdb setting name %q", k)
		}
	}
	if p.Extension == "" {
		p.Extension = ".csv"
	}
	return p, nil
}
