// Package config defines the converter configuration. These are pure data
// structures; loading and discovery live in internal/configloader.
package config

import (
	"fmt"
	"strings"
)

// ColorMode controls colorized diagnostic output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true for a known color mode.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// admonitionTypes are the typed admonition constructs whose labels can be
// overridden.
var admonitionTypes = map[string]bool{
	"note": true, "hint": true, "tip": true, "important": true,
	"attention": true, "warning": true, "caution": true, "danger": true,
}

// Config is the root configuration for a conversion.
type Config struct {
	// RawFormats are the raw-block format labels reproduced in the output.
	// Raw blocks in any other format are discarded.
	RawFormats []string `yaml:"raw_formats"`

	// DetectLanguage enables language detection for literal blocks that
	// carry no language of their own; the detected name becomes the
	// preformatted block's alt label.
	DetectLanguage bool `yaml:"detect_language"`

	// AdmonitionLabels overrides the fixed title labels of typed
	// admonitions, keyed by type ("note", "warning", ...).
	AdmonitionLabels map[string]string `yaml:"admonition_labels"`

	// Color controls colorized diagnostics on the terminal.
	Color ColorMode `yaml:"color"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		RawFormats: []string{"gemtext", "gemini"},
		Color:      ColorAuto,
	}
}

// AcceptsRawFormat reports whether raw blocks of the given format survive
// translation. Comparison is case-insensitive.
func (c *Config) AcceptsRawFormat(format string) bool {
	format = strings.ToLower(strings.TrimSpace(format))
	for _, accepted := range c.RawFormats {
		if strings.ToLower(accepted) == format {
			return true
		}
	}
	return false
}

// Validate checks the configuration for values the converter cannot use.
func (c *Config) Validate() error {
	if c.Color != "" && !c.Color.IsValid() {
		return fmt.Errorf("invalid color mode %q (want auto, always, or never)", c.Color)
	}
	for typ := range c.AdmonitionLabels {
		if !admonitionTypes[typ] {
			return fmt.Errorf("unknown admonition type %q in admonition_labels", typ)
		}
	}
	return nil
}

// Merge overlays non-zero fields of other onto a copy of c.
func (c *Config) Merge(other *Config) *Config {
	merged := c.Clone()
	if other == nil {
		return merged
	}
	if len(other.RawFormats) > 0 {
		merged.RawFormats = append([]string(nil), other.RawFormats...)
	}
	if other.DetectLanguage {
		merged.DetectLanguage = true
	}
	for typ, label := range other.AdmonitionLabels {
		if merged.AdmonitionLabels == nil {
			merged.AdmonitionLabels = make(map[string]string)
		}
		merged.AdmonitionLabels[typ] = label
	}
	if other.Color != "" {
		merged.Color = other.Color
	}
	return merged
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return Default()
	}
	clone := *c
	clone.RawFormats = append([]string(nil), c.RawFormats...)
	if c.AdmonitionLabels != nil {
		clone.AdmonitionLabels = make(map[string]string, len(c.AdmonitionLabels))
		for k, v := range c.AdmonitionLabels {
			clone.AdmonitionLabels[k] = v
		}
	}
	return &clone
}
