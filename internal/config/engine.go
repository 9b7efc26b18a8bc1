package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/osse101/Atelier_Go/internal/capacity"
	"github.com/osse101/Atelier_Go/internal/recipe"
)

// EngineSettings groups the tunables of the recipe resolver and the capacity summary
type EngineSettings struct {
	Recipe  recipe.Settings
	Summary capacity.SummarySettings
}

type engineFile struct {
	Casting struct {
		MixFactor      float64 `mapstructure:"mix_factor"`
		WastagePercent float64 `mapstructure:"wastage_percent"`
	} `mapstructure:"casting"`

	Formulated struct {
		FragranceGramsPerDrop   float64 `mapstructure:"fragrance_grams_per_drop"`
		AdditiveGramBasis       float64 `mapstructure:"additive_gram_basis"`
		AdditiveFallbackPercent float64 `mapstructure:"additive_fallback_percent"`
	} `mapstructure:"formulated"`

	Summary capacity.SummarySettings `mapstructure:"summary"`
}

// DefaultEngineSettings returns the built-in tunables
func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		Recipe:  recipe.DefaultSettings(),
		Summary: capacity.DefaultSummarySettings(),
	}
}

// LoadEngineSettings reads engine tunables from a YAML, JSON or TOML file.
// Keys missing from the file keep their defaults and every key can be
// overridden with an ATELIER_ prefixed variable (ATELIER_CASTING_MIX_FACTOR).
// A missing file yields the defaults.
func LoadEngineSettings(path string) (EngineSettings, error) {
	v := newEngineViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !isMissingFile(err) {
				return EngineSettings{}, fmt.Errorf(ErrMsgReadEngineSettings, path, err)
			}
		}
	}

	var f engineFile
	if err := v.Unmarshal(&f); err != nil {
		return EngineSettings{}, fmt.Errorf(ErrMsgDecodeEngineSettings, err)
	}

	s := EngineSettings{
		Recipe: recipe.Settings{
			FragranceGramsPerDrop:   f.Formulated.FragranceGramsPerDrop,
			AdditiveGramBasis:       f.Formulated.AdditiveGramBasis,
			AdditiveFallbackPercent: f.Formulated.AdditiveFallbackPercent,
			DefaultMixFactor:        f.Casting.MixFactor,
			DefaultWastagePercent:   f.Casting.WastagePercent,
		},
		Summary: f.Summary,
	}
	if err := s.Validate(); err != nil {
		return EngineSettings{}, err
	}
	return s, nil
}

// Validate rejects tunables the engine cannot work with
func (s EngineSettings) Validate() error {
	positive := map[string]float64{
		KeyCastingMixFactor:             s.Recipe.DefaultMixFactor,
		KeyFormulatedFragranceGramsDrop: s.Recipe.FragranceGramsPerDrop,
		KeyFormulatedAdditiveGramBasis:  s.Recipe.AdditiveGramBasis,
		KeySummaryTopN:                  float64(s.Summary.TopN),
	}
	for _, key := range []string{KeyCastingMixFactor, KeyFormulatedFragranceGramsDrop, KeyFormulatedAdditiveGramBasis, KeySummaryTopN} {
		if positive[key] <= 0 {
			return fmt.Errorf(ErrMsgNonPositiveSettingFmt, key, positive[key])
		}
	}

	nonNegative := map[string]float64{
		KeyCastingWastagePercent:         s.Recipe.DefaultWastagePercent,
		KeyFormulatedAdditiveFallbackPct: s.Recipe.AdditiveFallbackPercent,
		KeySummaryCriticalThreshold:      float64(s.Summary.CriticalThreshold),
	}
	for _, key := range []string{KeyCastingWastagePercent, KeyFormulatedAdditiveFallbackPct, KeySummaryCriticalThreshold} {
		if nonNegative[key] < 0 {
			return fmt.Errorf(ErrMsgNegativeSettingFmt, key, nonNegative[key])
		}
	}
	return nil
}

func newEngineViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EngineSettingsEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultEngineSettings()
	v.SetDefault(KeyCastingMixFactor, d.Recipe.DefaultMixFactor)
	v.SetDefault(KeyCastingWastagePercent, d.Recipe.DefaultWastagePercent)
	v.SetDefault(KeyFormulatedFragranceGramsDrop, d.Recipe.FragranceGramsPerDrop)
	v.SetDefault(KeyFormulatedAdditiveGramBasis, d.Recipe.AdditiveGramBasis)
	v.SetDefault(KeyFormulatedAdditiveFallbackPct, d.Recipe.AdditiveFallbackPercent)
	v.SetDefault(KeySummaryTopN, d.Summary.TopN)
	v.SetDefault(KeySummaryCriticalThreshold, d.Summary.CriticalThreshold)
	return v
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
