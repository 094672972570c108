package configloader

import "github.com/yaklabco/mdnotes/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointers: override overwrites base if override is non-nil
//   - Nested sections merge field by field
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.NotesDir != "" {
		result.NotesDir = override.NotesDir
	}
	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.QuietPeriod != 0 {
		result.QuietPeriod = override.QuietPeriod
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}

	result.Font = mergeFont(result.Font, override.Font)

	// false is meaningful here, so only nil leaves the base alone.
	if override.Preview.DetectLanguages != nil {
		detect := *override.Preview.DetectLanguages
		result.Preview.DetectLanguages = &detect
	}

	return result
}

// mergeFont merges font sections field by field.
func mergeFont(base, override config.FontConfig) config.FontConfig {
	result := base
	if override.Family != "" {
		result.Family = override.Family
	}
	if override.Size != 0 {
		result.Size = override.Size
	}
	if override.Foreground != "" {
		result.Foreground = override.Foreground
	}
	if override.MarkerForeground != "" {
		result.MarkerForeground = override.MarkerForeground
	}
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
