// Package config loads the pipeline run configuration: input paths, the run
// seed, the declared reference level per categorical field, the search grid
// and the selected hyperparameters.
package config

import (
	"github.com/spf13/viper"

	"github.com/skloese/claimfreq/dataset"
	"github.com/skloese/claimfreq/model"
	"github.com/skloese/claimfreq/pkg/errors"
	"github.com/skloese/claimfreq/preprocessing"
)

// Config is the full run configuration. Every field has a default; a YAML
// config file and CLAIMFREQ_* environment variables override.
type Config struct {
	PoliciesPath string `mapstructure:"policies_path"`
	ClaimsPath   string `mapstructure:"claims_path"`
	OutputDir    string `mapstructure:"output_dir"`
	ResultsPath  string `mapstructure:"results_path"`

	Seed          int64   `mapstructure:"seed"`
	TrainFraction float64 `mapstructure:"train_fraction"`
	Workers       int     `mapstructure:"workers"`
	LogLevel      string  `mapstructure:"log_level"`

	TreeFormat string `mapstructure:"tree_format"`
	ShapSample int    `mapstructure:"shap_sample"`
	PDPoints   int    `mapstructure:"pd_points"`

	// References declares the dropped (reference) one-hot level per
	// categorical field. The choice is an explicit modelling decision, not
	// a convention; it must name an observed level of each field.
	References map[string]string `mapstructure:"references"`

	Grid     GridConfig     `mapstructure:"grid"`
	Selected SelectedConfig `mapstructure:"selected"`
}

// GridConfig spans the hyperparameter search space.
type GridConfig struct {
	Rounds          []int     `mapstructure:"rounds"`
	MaxDepth        []int     `mapstructure:"max_depth"`
	LearningRate    []float64 `mapstructure:"learning_rate"`
	ColumnSubsample []float64 `mapstructure:"column_subsample"`
	RowSubsample    []float64 `mapstructure:"row_subsample"`
}

// SelectedConfig is the configuration chosen from the ranked search results.
// The choice stays an external input: the tuner only ranks.
type SelectedConfig struct {
	Rounds          int     `mapstructure:"rounds"`
	MaxDepth        int     `mapstructure:"max_depth"`
	LearningRate    float64 `mapstructure:"learning_rate"`
	ColumnSubsample float64 `mapstructure:"column_subsample"`
	RowSubsample    float64 `mapstructure:"row_subsample"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("policies_path", "data/policies.csv")
	v.SetDefault("claims_path", "data/claims.csv")
	v.SetDefault("output_dir", "out")
	v.SetDefault("results_path", "out/tuning_results.csv")
	v.SetDefault("seed", 42)
	v.SetDefault("train_fraction", 0.8)
	v.SetDefault("workers", 1)
	v.SetDefault("log_level", "info")
	v.SetDefault("tree_format", "png")
	v.SetDefault("shap_sample", 1000)
	v.SetDefault("pd_points", 20)

	v.SetDefault("references", map[string]string{
		dataset.FieldCoverage:     "third_party",
		dataset.FieldPaymentFreq:  "annual",
		dataset.FieldUsage:        "private",
		dataset.FieldFuel:         "petrol",
		dataset.FieldVehicleType:  "sedan",
		dataset.FieldSecondDriver: "no",
		dataset.FieldGender:       "m",
	})

	v.SetDefault("grid.rounds", []int{50, 100, 150, 200})
	v.SetDefault("grid.max_depth", []int{2, 3, 4, 5, 6})
	v.SetDefault("grid.learning_rate", []float64{0.01, 0.05, 0.1})
	v.SetDefault("grid.column_subsample", []float64{0.6, 0.8, 1.0})
	v.SetDefault("grid.row_subsample", []float64{0.6, 0.8, 1.0})

	v.SetDefault("selected.rounds", 150)
	v.SetDefault("selected.max_depth", 4)
	v.SetDefault("selected.learning_rate", 0.05)
	v.SetDefault("selected.column_subsample", 0.8)
	v.SetDefault("selected.row_subsample", 0.8)
}

// Load reads the configuration. path may be empty, in which case only
// defaults, a config.yaml in the working directory and environment
// variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("CLAIMFREQ")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.TrainFraction <= 0 || c.TrainFraction >= 1 {
		return errors.NewValueError("config", "train_fraction must be in (0, 1)")
	}
	for _, field := range dataset.CategoricalFields() {
		if c.References[field] == "" {
			return errors.NewValueError("config", "missing reference level for field "+field)
		}
	}
	return nil
}

// Fields returns the categorical field declarations for the encoder, in the
// dataset's declared field order.
func (c *Config) Fields() []preprocessing.CategoricalField {
	fields := make([]preprocessing.CategoricalField, 0, len(dataset.CategoricalFields()))
	for _, name := range dataset.CategoricalFields() {
		fields = append(fields, preprocessing.CategoricalField{
			Name:      name,
			Reference: c.References[name],
		})
	}
	return fields
}

// SearchGrid converts the grid configuration for the tuner.
func (c *Config) SearchGrid() model.Grid {
	return model.Grid{
		Rounds:          c.Grid.Rounds,
		MaxDepth:        c.Grid.MaxDepth,
		LearningRate:    c.Grid.LearningRate,
		ColumnSubsample: c.Grid.ColumnSubsample,
		RowSubsample:    c.Grid.RowSubsample,
	}
}

// SelectedHyperparams converts the selected configuration for the trainer.
func (c *Config) SelectedHyperparams() model.Hyperparams {
	return model.Hyperparams{
		Rounds:          c.Selected.Rounds,
		MaxDepth:        c.Selected.MaxDepth,
		LearningRate:    c.Selected.LearningRate,
		ColumnSubsample: c.Selected.ColumnSubsample,
		RowSubsample:    c.Selected.RowSubsample,
	}
}
