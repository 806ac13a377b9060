// Package env configures host sessions from defaults, METAL_* environment
// variables, command line flags and an optional TOML file.
package env

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/robotalks/metal.go/pkg/host"
	"github.com/robotalks/metal.go/pkg/unit"
)

// Config provides the options of a host session.
type Config struct {
	// Target is a transport URL, or the path of a program to run.
	// e.g. tcp://localhost:4000, ./build/tests
	Target string `toml:"target"`
	// Args are passed to a program target, and to the target through argv.
	Args []string `toml:"args"`
	// Symbols is a site table file or the binary of the target. Program
	// targets are their own symbols by default.
	Symbols string `toml:"symbols"`
	// Level filters the printed test events.
	Level unit.PrintLevel `toml:"level"`
	// Report is where the result tree is written, "-" for stdout.
	Report string `toml:"report"`
	// Format is the encoding of Report.
	Format string `toml:"format"`
	// Capture records the bytes sent by the target.
	Capture string `toml:"capture"`
}

var (
	defaultConfig = Config{
		Level:  unit.PrintAll,
		Format: host.FormatJSON,
	}

	configFile string
)

func init() {
	if val := os.Getenv("METAL_TARGET"); val != "" {
		defaultConfig.Target = val
	}
	if val := os.Getenv("METAL_SYMBOLS"); val != "" {
		defaultConfig.Symbols = val
	}
	if val := os.Getenv("METAL_LEVEL"); val != "" {
		if err := defaultConfig.Level.Set(val); err != nil {
			fmt.Fprintf(os.Stderr, "METAL_LEVEL: %v\n", err)
		}
	}
	if val := os.Getenv("METAL_REPORT"); val != "" {
		defaultConfig.Report = val
	}
	if val := os.Getenv("METAL_REPORT_FORMAT"); val != "" {
		defaultConfig.Format = val
	}
	if val := os.Getenv("METAL_CAPTURE"); val != "" {
		defaultConfig.Capture = val
	}
	configFile = os.Getenv("METAL_CONFIG")
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&configFile, "config", configFile, "TOML file with defaults for the flags below.")
	flag.StringVar(&defaultConfig.Target, "target", defaultConfig.Target, "Target URL or program.")
	flag.StringVar(&defaultConfig.Symbols, "symbols", defaultConfig.Symbols, "Site table or target binary.")
	flag.Var(&defaultConfig.Level, "level", "Printed events: all, warning or error.")
	flag.StringVar(&defaultConfig.Report, "report", defaultConfig.Report, "Write the test report to this file, - for stdout.")
	flag.StringVar(&defaultConfig.Format, "format", defaultConfig.Format,
		"Report format: "+strings.Join(host.Formats, ", ")+".")
	flag.StringVar(&defaultConfig.Capture, "capture", defaultConfig.Capture, "Record the session to this file.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations, completed by the
// config file if any. Flags set on the command line take precedence over
// the file.
func NewConfig() (*Config, error) {
	conf := defaultConfig
	if configFile == "" {
		return &conf, nil
	}
	explicit := make(map[string]bool)
	if flag.Parsed() {
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	}
	if err := conf.LoadFile(configFile, explicit); err != nil {
		return nil, err
	}
	return &conf, nil
}

// LoadFile merges the TOML file at path into c. Keys listed in skip are
// left untouched.
func (c *Config) LoadFile(path string, skip map[string]bool) error {
	var file Config
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config %s: unknown keys %v", path, undecoded)
	}
	set := func(key string, apply func()) {
		if md.IsDefined(key) && !skip[key] {
			apply()
		}
	}
	set("target", func() { c.Target = file.Target })
	set("args", func() { c.Args = file.Args })
	set("symbols", func() { c.Symbols = file.Symbols })
	set("level", func() { c.Level = file.Level })
	set("report", func() { c.Report = file.Report })
	set("format", func() { c.Format = file.Format })
	set("capture", func() { c.Capture = file.Capture })
	return nil
}

// Validate checks the options.
func (c *Config) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("target must be specified")
	}
	for _, format := range host.Formats {
		if strings.EqualFold(format, c.Format) {
			return nil
		}
	}
	return fmt.Errorf("unknown report format %q", c.Format)
}
