package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gemrst/rst2gem/pkg/config"
)

// envVarPrefix is the prefix for all rst2gem environment variables.
const envVarPrefix = "RST2GEM_"

// LoadFromEnv builds a configuration layer from environment variables:
//
//	RST2GEM_COLOR            color mode (auto, always, never)
//	RST2GEM_DETECT_LANGUAGE  boolean
//	RST2GEM_RAW_FORMATS      comma-separated format list
//
// RST2GEM_CONFIG is handled by Load as an explicit config path.
func LoadFromEnv() (*config.Config, error) {
	cfg := &config.Config{}

	if v := os.Getenv(envVarPrefix + "COLOR"); v != "" {
		cfg.Color = config.ColorMode(strings.ToLower(v))
	}

	if v := os.Getenv(envVarPrefix + "DETECT_LANGUAGE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean for %sDETECT_LANGUAGE: %q", envVarPrefix, v)
		}
		cfg.DetectLanguage = b
	}

	if v := os.Getenv(envVarPrefix + "RAW_FORMATS"); v != "" {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				cfg.RawFormats = append(cfg.RawFormats, f)
			}
		}
	}

	return cfg, nil
}
