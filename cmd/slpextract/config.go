package main

import (
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// config supplies defaults for flags left unset on the command line.
type config struct {
	Format string  `yaml:"format"`
	Begin  *uint64 `yaml:"begin"`
	End    *uint64 `yaml:"end"`
	Output string  `yaml:"output"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// apply copies config values into the flags the command line did not set.
func (c *config) apply(format *string, begin, end *uint64, output *string) {
	if c.Format != "" && !pflag.CommandLine.Changed("format") {
		*format = c.Format
	}
	if c.Begin != nil && !pflag.CommandLine.Changed("begin") {
		*begin = *c.Begin
	}
	if c.End != nil && !pflag.CommandLine.Changed("end") {
		*end = *c.End
	}
	if c.Output != "" && !pflag.CommandLine.Changed("output") {
		*output = c.Output
	}
}
