package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new sessions
	DefaultMode    Mode    `json:"default_mode"`
	DefaultRadius  int     `json:"default_radius"`
	IterationCap   int     `json:"iteration_cap"`
	ResolveEpsilon float64 `json:"resolve_epsilon"`
	DisplayEpsilon float64 `json:"display_epsilon"`

	// Application preferences
	LogLevel        string   `json:"log_level"` // "debug", "info", "warn", "error"
	RecentScenarios []string `json:"recent_scenarios"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultMode:     defaults.Mode,
		DefaultRadius:   defaults.Radius,
		IterationCap:    defaults.IterationCap,
		ResolveEpsilon:  defaults.ResolveEpsilon,
		DisplayEpsilon:  defaults.DisplayEpsilon,
		LogLevel:        "info",
		RecentScenarios: []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a Settings struct.
// Non-positive values are skipped so a partially written config keeps the built-in defaults.
func (c AppConfig) ApplyToSettings(s *Settings) {
	if c.DefaultMode != "" {
		s.Mode = c.DefaultMode
	}
	if c.DefaultRadius > 0 {
		s.Radius = c.DefaultRadius
	}
	if c.IterationCap > 0 {
		s.IterationCap = c.IterationCap
	}
	if c.ResolveEpsilon > 0 {
		s.ResolveEpsilon = c.ResolveEpsilon
	}
	if c.DisplayEpsilon > 0 {
		s.DisplayEpsilon = c.DisplayEpsilon
	}
}

// AddRecentScenario moves path to the front of the recent list, keeping at most max entries.
func (c *AppConfig) AddRecentScenario(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentScenarios {
		if p != path {
			recent = append(recent, p)
		}
	}
	if max > 0 && len(recent) > max {
		recent = recent[:max]
	}
	c.RecentScenarios = recent
}
