package calculator

import (
	"fmt"

	"voice-calculator/internal/config"
	"voice-calculator/internal/expression"
	"voice-calculator/internal/session"
)

// Settings are the calculator defaults applied to requests that do not
// override them.
type Settings struct {
	AngleUnit     expression.AngleUnit
	ResultPolicy  session.ResultPolicy
	RecentHistory int
}

func DefaultSettings() Settings {
	return Settings{
		AngleUnit:     expression.Radians,
		ResultPolicy:  session.Fresh,
		RecentHistory: 12,
	}
}

// SettingsFromConfig converts the calculator section of the configuration.
func SettingsFromConfig(c config.Calculator) (Settings, error) {
	unit, err := expression.ParseAngleUnit(c.AngleUnit)
	if err != nil {
		return Settings{}, fmt.Errorf("calculator settings: %w", err)
	}
	policy, err := session.ParseResultPolicy(c.ResultPolicy)
	if err != nil {
		return Settings{}, fmt.Errorf("calculator settings: %w", err)
	}
	recent := c.RecentHistory
	if recent <= 0 {
		recent = DefaultSettings().RecentHistory
	}
	return Settings{AngleUnit: unit, ResultPolicy: policy, RecentHistory: recent}, nil
}
