package config

// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked; listen address
// and cache size changes require a restart.
type ConfigDiff struct {
	PresetsChanged       bool
	PresetChanges        []PresetDiff
	DefaultPresetChanged bool
	NewDefaultPreset     string
	LogLevelChanged      bool
	NewLogLevel          LogLevel
}

// PresetDiff describes what changed for a single preset between two configs.
type PresetDiff struct {
	Name    string
	Changed bool
	Added   bool
	Removed bool
}

// Diff compares old and new configs and returns what changed.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if old.DefaultPreset != new.DefaultPreset {
		d.DefaultPresetChanged = true
		d.NewDefaultPreset = new.DefaultPreset
	}

	oldPresets := make(map[string]Preset, len(old.Presets))
	for _, p := range old.Presets {
		oldPresets[p.Name] = p
	}
	newPresets := make(map[string]Preset, len(new.Presets))
	for _, p := range new.Presets {
		newPresets[p.Name] = p
	}

	// Detect modified and removed presets.
	for name, oldP := range oldPresets {
		newP, exists := newPresets[name]
		if !exists {
			d.PresetChanges = append(d.PresetChanges, PresetDiff{Name: name, Removed: true})
			d.PresetsChanged = true
			continue
		}
		if oldP != newP {
			d.PresetChanges = append(d.PresetChanges, PresetDiff{Name: name, Changed: true})
			d.PresetsChanged = true
		}
	}

	// Detect added presets.
	for name := range newPresets {
		if _, exists := oldPresets[name]; !exists {
			d.PresetChanges = append(d.PresetChanges, PresetDiff{Name: name, Added: true})
			d.PresetsChanged = true
		}
	}

	return d
}
