package config

import (
	"os"

	"github.com/codingconcepts/env"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Settings is the flat session configuration read once at engine
// construction; the core treats it as immutable afterwards.
type Settings struct {
	// SwingStrength is the symmetric look-back/look-forward window of the
	// swing detector: a candle confirms once SwingStrength candles closed
	// on each side of it.
	SwingStrength int `yaml:"swingStrength" json:"swingStrength" env:"SMC_SWING_STRENGTH"`

	ShowFVG             bool `yaml:"showFVG" json:"showFVG" env:"SMC_SHOW_FVG"`
	ShowOrderBlocks     bool `yaml:"showOrderBlocks" json:"showOrderBlocks" env:"SMC_SHOW_ORDER_BLOCKS"`
	ShowBreakerBlocks   bool `yaml:"showBreakerBlocks" json:"showBreakerBlocks" env:"SMC_SHOW_BREAKER_BLOCKS"`
	ShowRejectionBlocks bool `yaml:"showRejectionBlocks" json:"showRejectionBlocks" env:"SMC_SHOW_REJECTION_BLOCKS"`
	ShowOrderFlow       bool `yaml:"showOrderFlow" json:"showOrderFlow" env:"SMC_SHOW_ORDER_FLOW"`
	ShowCISD            bool `yaml:"showCISD" json:"showCISD" env:"SMC_SHOW_CISD"`
	ShowUnicorn         bool `yaml:"showUnicorn" json:"showUnicorn" env:"SMC_SHOW_UNICORN"`

	// EnableProjections mints a standard deviation projection on each
	// break of structure.
	EnableProjections bool `yaml:"enableProjections" json:"enableProjections" env:"SMC_ENABLE_PROJECTIONS"`

	OrderBlockLookback  int     `yaml:"orderBlockLookback" json:"orderBlockLookback" env:"SMC_ORDER_BLOCK_LOOKBACK"`
	OrderBlockBodyRatio float64 `yaml:"orderBlockBodyRatio" json:"orderBlockBodyRatio" env:"SMC_ORDER_BLOCK_BODY_RATIO"`

	// RejectionWickRatio is the minimum wick-to-body ratio a swing candle
	// needs to mint a rejection block.
	RejectionWickRatio float64 `yaml:"rejectionWickRatio" json:"rejectionWickRatio" env:"SMC_REJECTION_WICK_RATIO"`

	// CisdMinRun is the minimum count of consecutive opposing candles
	// ahead of the turning bar.
	CisdMinRun           int `yaml:"cisdMinRun" json:"cisdMinRun" env:"SMC_CISD_MIN_RUN"`
	MaxCisdsPerDirection int `yaml:"maxCisdsPerDirection" json:"maxCisdsPerDirection" env:"SMC_MAX_CISDS_PER_DIRECTION"`
}

// Default returns the settings with every detector enabled and the
// standard parameter set.
func Default() *Settings {
	return &Settings{
		SwingStrength:        2,
		ShowFVG:              true,
		ShowOrderBlocks:      true,
		ShowBreakerBlocks:    true,
		ShowRejectionBlocks:  true,
		ShowOrderFlow:        true,
		ShowCISD:             true,
		ShowUnicorn:          true,
		EnableProjections:    true,
		OrderBlockLookback:   10,
		OrderBlockBodyRatio:  0.5,
		RejectionWickRatio:   2.0,
		CisdMinRun:           2,
		MaxCisdsPerDirection: 3,
	}
}

func (s *Settings) Validate() error {
	if s.SwingStrength < 1 {
		return errors.Errorf("swingStrength must be >= 1, got %d", s.SwingStrength)
	}

	if s.OrderBlockLookback < 1 {
		return errors.Errorf("orderBlockLookback must be >= 1, got %d", s.OrderBlockLookback)
	}

	if s.OrderBlockBodyRatio <= 0 || s.OrderBlockBodyRatio > 1 {
		return errors.Errorf("orderBlockBodyRatio must be in (0, 1], got %f", s.OrderBlockBodyRatio)
	}

	if s.RejectionWickRatio <= 0 {
		return errors.Errorf("rejectionWickRatio must be > 0, got %f", s.RejectionWickRatio)
	}

	if s.CisdMinRun < 1 {
		return errors.Errorf("cisdMinRun must be >= 1, got %d", s.CisdMinRun)
	}

	if s.MaxCisdsPerDirection < 1 {
		return errors.Errorf("maxCisdsPerDirection must be >= 1, got %d", s.MaxCisdsPerDirection)
	}

	return nil
}

// Load reads the yaml settings file, applies environment overrides and
// validates. An empty path yields the defaults with env overrides only.
func Load(path string) (*Settings, error) {
	s := Default()

	if path != "" {
		out, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "can not read settings file %s", path)
		}

		if err := yaml.Unmarshal(out, s); err != nil {
			return nil, errors.Wrapf(err, "can not parse settings file %s", path)
		}
	}

	if err := env.Set(s); err != nil {
		return nil, errors.Wrap(err, "can not apply environment overrides")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}
