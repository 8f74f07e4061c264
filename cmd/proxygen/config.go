package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a batch of proxies to generate.
//
//	proxies:
//	  - interface: github.com/acme/app/store.Store
//	    package: store
//	    name: StoreProxy
//	    output: store/store_proxy.go
type Config struct {
	Proxies []Proxy `yaml:"proxies"`
}

// Proxy describes one generated proxy.
type Proxy struct {
	Interface string `yaml:"interface"`
	Package   string `yaml:"package"`
	Name      string `yaml:"name"`
	Output    string `yaml:"output"`
}

// Validate reports the first missing field.
func (p Proxy) Validate() error {
	switch {
	case p.Interface == "":
		return errors.New("interface is required")
	case p.Package == "":
		return errors.New("package is required")
	case p.Name == "":
		return errors.New("name is required")
	case p.Output == "":
		return errors.New("output is required")
	}
	return nil
}

// LoadConfig reads a YAML batch config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes a YAML batch config.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if len(cfg.Proxies) == 0 {
		return nil, errors.New("config lists no proxies")
	}

	return &cfg, nil
}
