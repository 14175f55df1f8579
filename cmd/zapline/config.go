package main

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"zapline/scanner"
)

// defaultConfigFile is looked up when --config is not given. A missing
// default file is not an error.
const defaultConfigFile = ".zapline.yaml"

// fileConfig is the optional YAML configuration overlaid between built-in
// defaults and command-line flags. Durations are in seconds.
type fileConfig struct {
	Port        int    `yaml:"port"`
	Command     string `yaml:"command"`
	ResultsDir  string `yaml:"results_dir"`
	HistoryDB   string `yaml:"history_db"`
	ContextName string `yaml:"context_name"`
	MaxChildren int    `yaml:"max_children"`

	ReadyTimeout   int `yaml:"ready_timeout"`
	SpiderDeadline int `yaml:"spider_deadline"`
	ActiveDeadline int `yaml:"active_deadline"`

	Auth struct {
		LoginURL string `yaml:"login_url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"auth"`

	Hook struct {
		AutomationPrefixes []string `yaml:"automation_prefixes"`
	} `yaml:"hook"`

	Serve struct {
		Addr string `yaml:"addr"`
	} `yaml:"serve"`
}

// loadFileConfig reads path, or the default file when path is empty.
func loadFileConfig(path string) (*fileConfig, error) {
	optional := len(path) == 0
	if optional {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && optional {
		return &fileConfig{}, nil
	}
	if err != nil {
		return nil, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// apply overlays the file values onto cfg, leaving unset fields alone.
func (fc *fileConfig) apply(cfg *scanner.Config) {
	if fc.Port > 0 {
		cfg.Port = fc.Port
	}
	if len(fc.Command) > 0 {
		cfg.Command = fc.Command
	}
	if len(fc.ResultsDir) > 0 {
		cfg.ResultsDir = fc.ResultsDir
	}
	if len(fc.HistoryDB) > 0 {
		cfg.HistoryDB = fc.HistoryDB
	}
	if len(fc.ContextName) > 0 {
		cfg.ContextName = fc.ContextName
	}
	if fc.MaxChildren > 0 {
		cfg.MaxChildren = fc.MaxChildren
	}
	if fc.ReadyTimeout > 0 {
		cfg.ReadyTimeout = time.Duration(fc.ReadyTimeout) * time.Second
	}
	if fc.SpiderDeadline > 0 {
		cfg.SpiderDeadline = time.Duration(fc.SpiderDeadline) * time.Second
	}
	if fc.ActiveDeadline > 0 {
		cfg.ActiveDeadline = time.Duration(fc.ActiveDeadline) * time.Second
	}
	if len(fc.Auth.LoginURL) > 0 {
		cfg.LoginURL = fc.Auth.LoginURL
	}
	if len(fc.Auth.Username) > 0 {
		cfg.Username = fc.Auth.Username
	}
	if len(fc.Auth.Password) > 0 {
		cfg.Password = fc.Auth.Password
	}
}
