// Package config loads the tool's settings from `config.yml` in the user's
// configuration directory, creating the file with defaults on first use.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kind-lang/kindhvm/internal/hvm"
)

var (
	APP_NAME  = "kindhvm"
	FILE_NAME = "config.yml"
)

var DEFAULT_CONFIG_FILE string = `# builtin runs the in-process reducer, hvm runs an external hvm binary.
engine: builtin
hvm_path: hvm
# Rule file with the checking algorithm. Empty means the embedded prelude,
# which can only evaluate.
bootstrap: ""
timeout: 30s
spine_ceiling: 14
# Reduction step limit of the builtin engine, 0 for none.
max_steps: 0
`

type Config struct {
	Engine       EngineKind    `yaml:"engine"`
	HVMPath      string        `yaml:"hvm_path"`
	Bootstrap    string        `yaml:"bootstrap"`
	Timeout      time.Duration `yaml:"timeout"`
	SpineCeiling int           `yaml:"spine_ceiling"`
	MaxSteps     int           `yaml:"max_steps"`
}

func Default() Config {
	return Config{
		Engine:       ENGINE_BUILTIN,
		HVMPath:      "hvm",
		Timeout:      30 * time.Second,
		SpineCeiling: hvm.SpineCeiling,
	}
}

// ValidationError aggregates every problem found in a configuration file.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

func (c Config) Validate() error {
	var issues []string
	if c.Engine == ENGINE_HVM && c.HVMPath == "" {
		issues = append(issues, "hvm_path is required by the hvm engine")
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout must not be negative")
	}
	if err := hvm.ValidCeiling(c.SpineCeiling); err != nil {
		issues = append(issues, err.Error())
	}
	if c.MaxSteps < 0 {
		issues = append(issues, "max_steps must not be negative")
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// Decode reads a configuration. Keys left out keep their default value and
// unknown keys are an error.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads FILE_NAME from dir, writing the default file first if there is
// none.
func Load(dir string) (Config, error) {
	path := filepath.Join(dir, FILE_NAME)

	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, err
		}
		if err := writeStringToFile(path, DEFAULT_CONFIG_FILE); err != nil {
			return Config{}, err
		}
		if file, err = os.Open(path); err != nil {
			return Config{}, err
		}
	}
	defer file.Close()

	return Decode(file)
}

// Show prints every setting as `key='value'`, in declaration order.
func (c Config) Show(w io.Writer) {
	v := reflect.ValueOf(c)
	for i := 0; i < v.NumField(); i++ {
		field := v.Type().Field(i)
		key := field.Tag.Get("yaml")
		if key == "" {
			continue
		}
		fmt.Fprintf(w, "%s='%v'\n", key, v.Field(i).Interface())
	}
}

func SetupConfigDir() (string, error) {
	return getConfigDir(APP_NAME)
}

func getConfigDir(appName string) (string, error) {
	var configDir string

	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		configDir = filepath.Join(configHome, appName)
	} else if homeDir, err := os.UserHomeDir(); err == nil {
		if os.Getenv("OS") == "Windows_NT" {
			configDir = filepath.Join(os.Getenv("APPDATA"), appName)
		} else {
			configDir = filepath.Join(homeDir, ".config", appName)
		}
	} else {
		return "", fmt.Errorf("could not determine home directory")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return configDir, nil
}

func writeStringToFile(fileName, content string) error {
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(content)
	return err
}
