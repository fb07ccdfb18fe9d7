package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/korneil/linereader"
	"gopkg.in/yaml.v3"
)

//go:embed linereader.default.yml
var defaults []byte

// DefaultFile is read from the working directory when no file is given.
const DefaultFile = "linereader.yml"

type OutputConfig struct {
	Number bool `yaml:"number"`
	Color  bool `yaml:"color"`
	// MaxLines closes the reader once a line past it arrives. 0 means no limit.
	MaxLines int `yaml:"max_lines"`
	// Delay pauses the reader after every line for this long.
	Delay time.Duration `yaml:"delay"`
}

type CountConfig struct {
	Parallel int `yaml:"parallel"`
}

type Config struct {
	Reader linereader.Options `yaml:"reader"`
	Output OutputConfig       `yaml:"output"`
	Count  CountConfig        `yaml:"count"`
}

// Load returns the embedded defaults overlaid with the file at path. A
// missing file is only an error when required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaults, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded %s: %w", DefaultFile, err)
	}

	f, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err = yaml.Unmarshal(f, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) GetConfigYAML() (o []byte) {
	o, _ = yaml.Marshal(c)
	return
}
