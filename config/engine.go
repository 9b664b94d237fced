package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/linesmerrill/hearing-scheduler/constraints"
	"github.com/linesmerrill/hearing-scheduler/models"
	"github.com/linesmerrill/hearing-scheduler/priority"
)

// Engine holds the tunables of a scoring and scheduling run, usually read from
// the YAML file named by CONFIG_FILE.
type Engine struct {
	Weights             map[string]float64 `yaml:"weights" json:"weights,omitempty"`
	UrgentKeywords      []string           `yaml:"urgent_keywords" json:"urgent_keywords,omitempty" validate:"dive,required"`
	Constraints         *constraints.Params `yaml:"constraints" json:"constraints,omitempty"`
	WindowDays          int                `yaml:"window_days" json:"window_days" validate:"gte=1,lte=366"`
	Strategy            models.Strategy    `yaml:"strategy" json:"strategy" validate:"oneof=exact heuristic"`
	SolverBudget        time.Duration      `yaml:"solver_budget" json:"solver_budget" validate:"gte=0"`
	PriorityHorizonDays int                `yaml:"priority_horizon_days" json:"priority_horizon_days" validate:"gte=0"`
	GapThreshold        float64            `yaml:"gap_threshold" json:"gap_threshold" validate:"gte=0,lte=1"`
}

// DefaultEngine is used when no configuration file is given
func DefaultEngine() Engine {
	return Engine{
		WindowDays:          30,
		Strategy:            models.StrategyExact,
		SolverBudget:        10 * time.Second,
		PriorityHorizonDays: 7,
		GapThreshold:        0.5,
	}
}

var validate = validator.New()

// ParseEngine reads YAML on top of the defaults and validates the result
func ParseEngine(data []byte) (Engine, error) {
	e := DefaultEngine()
	if err := yaml.Unmarshal(data, &e); err != nil {
		return Engine{}, models.NewConfigurationError("config", "invalid yaml: %v", err)
	}
	if err := e.Validate(); err != nil {
		return Engine{}, err
	}
	return e, nil
}

// LoadEngine reads the file at path. An empty path yields the defaults.
func LoadEngine(path string) (Engine, error) {
	if path == "" {
		return DefaultEngine(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Engine{}, fmt.Errorf("read engine config %s: %w", path, err)
	}
	return ParseEngine(data)
}

// Validate checks field ranges and that the weights and constraints build
func (e Engine) Validate() error {
	if err := validate.Struct(e); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			f := verrs[0]
			return models.NewConfigurationError(f.Field(), "failed %q validation (value %v)", f.Tag(), f.Value())
		}
		return models.NewConfigurationError("config", "%v", err)
	}
	if _, err := e.PriorityOptions(); err != nil {
		return err
	}
	if _, err := e.ConstraintSet(); err != nil {
		return err
	}
	return nil
}

// PriorityOptions converts the weights and keywords for the priority model
func (e Engine) PriorityOptions() (priority.Options, error) {
	opts := priority.Options{Keywords: e.UrgentKeywords}
	if len(e.Weights) > 0 {
		w, err := priority.WeightsFromMap(e.Weights)
		if err != nil {
			return priority.Options{}, err
		}
		opts.Weights = &w
	}
	return opts, nil
}

// ConstraintSet builds the configured constraints, or the default set when the
// file has no constraints section.
func (e Engine) ConstraintSet() (*constraints.Set, error) {
	if e.Constraints == nil {
		return constraints.Default(), nil
	}
	return constraints.FromParams(*e.Constraints)
}
