package configloader

import "github.com/yaklabco/jotdown/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointer booleans: override overwrites base if override is non-nil
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	result.Render = mergeRender(base.Render, override.Render)

	if override.OutputDir != "" {
		result.OutputDir = override.OutputDir
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	// Stdout can only be switched on; it is never read from files.
	if override.Stdout {
		result.Stdout = true
	}

	if override.Extensions != nil {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.Ignore != nil {
		result.Ignore = append([]string(nil), override.Ignore...)
	}

	return result
}

func mergeRender(base, override config.RenderConfig) config.RenderConfig {
	result := base

	result.Standalone = mergeBool(base.Standalone, override.Standalone)
	result.NoDefaultStyles = mergeBool(base.NoDefaultStyles, override.NoDefaultStyles)
	result.Highlight = mergeBool(base.Highlight, override.Highlight)
	result.DetectLanguage = mergeBool(base.DetectLanguage, override.DetectLanguage)

	if override.Stylesheet != "" {
		result.Stylesheet = override.Stylesheet
	}
	if override.HighlightStyle != "" {
		result.HighlightStyle = override.HighlightStyle
	}
	return result
}

func mergeBool(base, override *bool) *bool {
	if override != nil {
		return config.Bool(*override)
	}
	if base != nil {
		return config.Bool(*base)
	}
	return nil
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
