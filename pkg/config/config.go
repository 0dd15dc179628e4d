/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package config

import (
	"errors"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v2"

	"jinr.ru/greenlab/go-inp/pkg/log"
)

type RefDBConfig struct {
	// Path is the newline delimited reference export, optionally compressed
	Path string `yaml:"path,omitempty"`
	// Store is the bbolt index built with `go-inp refdb import`.
	// If the file exists it is preferred over Path.
	Store string `yaml:"store,omitempty"`
}

type DecodeConfig struct {
	Ports     []int  `yaml:"ports,omitempty"`
	SkipBytes int    `yaml:"skip_bytes"`
	Format    string `yaml:"format,omitempty"`
}

type ApiConfig struct {
	Address       string `yaml:"address,omitempty"`
	Port          int    `yaml:"port,omitempty"`
	MaxUploadSize int64  `yaml:"max_upload_size,omitempty"`
}

type Config struct {
	LogLevel      string `yaml:"log_level,omitempty"`
	*RefDBConfig  `yaml:"refdb,omitempty"`
	*DecodeConfig `yaml:"decode,omitempty"`
	*ApiConfig    `yaml:"api,omitempty"`
	filepath      string
	// refSource is set from the command line and wins over both files
	refSource string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return os.WriteFile(c.filepath, data, 0644)
}

func (c *Config) LoadConfig() error {
	data, err := os.ReadFile(c.filepath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Load reads the config file if there is one. A missing file keeps defaults.
func (c *Config) Load() {
	err := c.LoadConfig()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warning("Error while loading config %s: %s", c.filepath, err)
	}
}

// Validate checks values that can not be fixed by defaults
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Format {
	case OutputFormatJSON, OutputFormatYAML:
	default:
		return ErrWrongOutputFormat{Format: c.Format}
	}
	if c.SkipBytes < 0 {
		return errors.New("skip_bytes must not be negative")
	}
	return nil
}

func (c *Config) FilePath() string {
	return c.filepath
}

func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	return string(data)
}

func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir)
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), ConfigFile)
}

func NewDefaultConfig() *Config {
	return NewConfig(DefaultConfigPath())
}

// NewConfig returns default settings bound to the given file
func NewConfig(path string) *Config {
	dir := DefaultConfigDir()
	return &Config{
		LogLevel: DefaultLogLevel,
		RefDBConfig: &RefDBConfig{
			Path:  filepath.Join(dir, DefaultRefDBFile),
			Store: filepath.Join(dir, DefaultRefStoreFile),
		},
		DecodeConfig: &DecodeConfig{
			SkipBytes: DefaultSkipBytes,
			Format:    DefaultOutputFormat,
		},
		ApiConfig: &ApiConfig{
			Address:       DefaultApiAddress,
			Port:          DefaultApiPort,
			MaxUploadSize: DefaultMaxUploadSize,
		},
		filepath: path,
	}
}

// SetRefSource makes path the reference data regardless of config
func (c *Config) SetRefSource(path string) {
	c.refSource = path
}

// RefSourcePath returns the store if it was built, otherwise the export
func (c *Config) RefSourcePath() string {
	if c.refSource != "" {
		return c.refSource
	}
	if c.Store != "" {
		if _, err := os.Stat(c.Store); err == nil {
			return c.Store
		}
	}
	return c.RefDBConfig.Path
}

// ApiAddr is the listen address of the API server
func (c *Config) ApiAddr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}
