package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Input      InputConfig      `yaml:"input"`
	Reassembly ReassemblyConfig `yaml:"reassembly"`
	Web        WebConfig        `yaml:"web"`
	Forward    ForwardConfig    `yaml:"forward"`
}

type InputConfig struct {
	// Source selects how NMEA lines are ingested: "stdin", "serial",
	// "tcp" or "file".
	Source string `yaml:"source"`

	// Device is the serial device path for source=serial.
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`

	// Addr is host:port for source=tcp.
	Addr string `yaml:"addr"`

	// Path is the input file for source=file.
	Path string `yaml:"path"`
}

type ReassemblyConfig struct {
	// SeqLimit bounds in-flight multi-fragment messages. Omitted
	// defaults to 32; an explicit 0 disables the bound.
	SeqLimit *int `yaml:"seq_limit"`
}

type WebConfig struct {
	Listen string `yaml:"listen"`
}

type ForwardConfig struct {
	Enable bool   `yaml:"enable"`
	Dest   string `yaml:"dest"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.applyDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.Input.Source == "" {
		cfg.Input.Source = "stdin"
	}
	switch cfg.Input.Source {
	case "stdin":
	case "serial":
		if cfg.Input.Baud == 0 {
			// AIS receivers output NMEA at 38400 by default.
			cfg.Input.Baud = 38400
		}
	case "tcp":
		if cfg.Input.Addr == "" {
			return fmt.Errorf("input.addr is required when input.source is tcp")
		}
	case "file":
		if cfg.Input.Path == "" {
			return fmt.Errorf("input.path is required when input.source is file")
		}
	default:
		return fmt.Errorf("input.source must be stdin, serial, tcp or file, got %q", cfg.Input.Source)
	}

	if cfg.Reassembly.SeqLimit == nil {
		v := 32
		cfg.Reassembly.SeqLimit = &v
	}
	if *cfg.Reassembly.SeqLimit < 0 {
		return fmt.Errorf("reassembly.seq_limit must be >= 0")
	}

	if cfg.Forward.Enable && cfg.Forward.Dest == "" {
		return fmt.Errorf("forward.dest is required when forward.enable is true")
	}
	return nil
}
