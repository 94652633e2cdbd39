package config

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/PotatoMaaan/trashctl/internal/env"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

var validate *validator.Validate

type Config struct {
	Core    Core    `yaml:"core"`
	Filters Filters `yaml:"filters"`
}

type Core struct {
	// TrashDir overrides the home trash location. Must be absolute.
	TrashDir string `yaml:"trash_dir"`

	// HomeFallback allows putting a file into the home trash when no
	// usable trash directory exists on the file's own device. This is a
	// cross-device copy, so it is opt-in.
	HomeFallback bool `yaml:"home_fallback"`

	Verbose bool `yaml:"verbose"`
}

// Filters narrows what `list` shows. Entries excluded here are still in the
// trash and still reachable by id.
type Filters struct {
	WithinDays int           `yaml:"within_days"`
	Exclude    ExcludeConfig `yaml:"exclude"`
}

type ExcludeConfig struct {
	Files    []string   `yaml:"files"`
	Patterns []string   `yaml:"patterns"`
	Globs    []string   `yaml:"globs"`
	Size     SizeConfig `yaml:"size"`
}

type SizeConfig struct {
	Min string `yaml:"min" validate:"validSize"`
	Max string `yaml:"max" validate:"validSize"`
}

func validSize(fl validator.FieldLevel) bool {
	value := strings.ToUpper(fl.Field().String())
	re := regexp.MustCompile(`^(\d+(B|KB|MB|GB|TB|PB))?$`) // empty is acceptable
	return re.MatchString(value)
}

func defaultConfig() Config {
	return Config{
		Core: Core{
			Verbose: true,
		},
		Filters: Filters{
			Exclude: ExcludeConfig{
				// .DS_Store files carry macOS folder view metadata and are
				// recreated constantly; nobody wants them in a listing.
				Files: []string{".DS_Store"},
			},
		},
	}
}

func initValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.Split(fld.Tag.Get("yaml"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("validSize", validSize)
	return v
}

// Parse loads the config file at path, or the default location when path is
// empty. A missing file is not an error; the defaults apply.
func Parse(path string) (Config, error) {
	validate = initValidator()

	if path == "" {
		path = env.TRASHCTL_CONFIG_PATH
	}

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("no config file, using defaults", "config-file", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	slog.Debug("config file found", "config-file", path)

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			return cfg, fmt.Errorf("validation error: field %s, %q is invalid", err.Field(), err.Value())
		}
	}

	return cfg, nil
}
