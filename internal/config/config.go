// ============================================================================
// METADATA
// ============================================================================
// Config Library - environment + TOML overlay configuration
//
// Purpose: Centralizes every tunable knob listed in spec section 6 (external
// interfaces, environment variables). Resolution order is: built-in default,
// then <worktree>/.omc/config.toml overlay, then environment variable —
// the same two-layer precedence the teacher's paths.Load + env pattern uses
// elsewhere in the codebase.
//
// Adapted from: system/runtime/lib/config + system/runtime/lib/paths
// (teacher), both BurntSushi/toml consumers.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Overlay is the shape of the optional .omc/config.toml file. Every field
// is optional; zero values mean "not set, fall through to default/env".
type Overlay struct {
	ContextGuardThreshold  int      `toml:"context_guard_threshold"`
	ContextSafetyThreshold int      `toml:"context_safety_threshold"`
	MaxBlocks              int      `toml:"max_blocks"`
	DisableTools           []string `toml:"disable_tools"`
	ExpensiveTools         []string `toml:"expensive_tools"`
	TeamEnabled            *bool    `toml:"team_enabled"`
	EcomodeEnabled         *bool    `toml:"ecomode_enabled"`
	SuppressHeavyForSmall  *bool    `toml:"suppress_heavy_for_small"`
}

// Config is the fully-resolved configuration used by the rest of the
// runtime.
type Config struct {
	ContextGuardThreshold  int
	ContextSafetyThreshold int
	MaxBlocks              int
	DisableTools           map[string]bool
	ExpensiveTools         map[string]bool
	TeamEnabled            bool
	EcomodeEnabled         bool
	SuppressHeavyForSmall  bool
}

// Defaults matches the numeric defaults named throughout spec.md.
func Defaults() Config {
	return Config{
		ContextGuardThreshold:  75,
		ContextSafetyThreshold: 55,
		MaxBlocks:              2,
		DisableTools:           map[string]bool{},
		ExpensiveTools:         map[string]bool{"ExitPlanMode": true},
		TeamEnabled:            true,
		EcomodeEnabled:         false,
		SuppressHeavyForSmall:  true,
	}
}

// Load resolves configuration for worktreeRoot: defaults, then
// .omc/config.toml if present, then environment variables.
func Load(worktreeRoot, omcRoot string) Config {
	cfg := Defaults()

	if overlay, ok := loadOverlay(omcRoot); ok {
		applyOverlay(&cfg, overlay)
	}

	applyEnv(&cfg)
	return cfg
}

func loadOverlay(omcRoot string) (Overlay, bool) {
	var overlay Overlay
	path := filepath.Join(omcRoot, "config.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return overlay, false
	}
	if _, err := toml.Decode(string(data), &overlay); err != nil {
		return overlay, false
	}
	return overlay, true
}

func applyOverlay(cfg *Config, overlay Overlay) {
	if overlay.ContextGuardThreshold != 0 {
		cfg.ContextGuardThreshold = overlay.ContextGuardThreshold
	}
	if overlay.ContextSafetyThreshold != 0 {
		cfg.ContextSafetyThreshold = overlay.ContextSafetyThreshold
	}
	if overlay.MaxBlocks != 0 {
		cfg.MaxBlocks = overlay.MaxBlocks
	}
	if len(overlay.DisableTools) > 0 {
		cfg.DisableTools = toSet(overlay.DisableTools)
	}
	if len(overlay.ExpensiveTools) > 0 {
		cfg.ExpensiveTools = toSet(overlay.ExpensiveTools)
	}
	if overlay.TeamEnabled != nil {
		cfg.TeamEnabled = *overlay.TeamEnabled
	}
	if overlay.EcomodeEnabled != nil {
		cfg.EcomodeEnabled = *overlay.EcomodeEnabled
	}
	if overlay.SuppressHeavyForSmall != nil {
		cfg.SuppressHeavyForSmall = *overlay.SuppressHeavyForSmall
	}
}

func applyEnv(cfg *Config) {
	if v, ok := envInt("OMC_CONTEXT_GUARD_THRESHOLD"); ok {
		cfg.ContextGuardThreshold = v
	}
	if v, ok := envInt("OMC_CONTEXT_SAFETY_THRESHOLD"); ok {
		cfg.ContextSafetyThreshold = v
	}
	if v := os.Getenv("OMC_DISABLE_TOOLS"); v != "" {
		cfg.DisableTools = toSet(strings.Split(v, ","))
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			set[item] = true
		}
	}
	return set
}

// EnvToggle reports whether an opt-in toggle env var is set to "1",
// matching spec section 6's notification-channel toggles.
func EnvToggle(key string) bool {
	return os.Getenv(key) == "1"
}
