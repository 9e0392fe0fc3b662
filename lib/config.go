/*package lib holds the configuration shared by halocat's command line modes.
Almost all of the heavy lifting is done by lib/'s subpackages.
*/
package lib

import (
	"fmt"

	"gopkg.in/gcfg.v1"
)

// Config stores the user-facing configuration variables. The zero value of
// every field is replaced by a sane default by DefaultConfig, so config files
// only need to name the variables they change.
type Config struct {
	Convert struct {
		// Output is the name of the .binc file written by convert mode.
		Output string
		// Level is the zstd compression level passed to the .binc writer.
		Level int
	}
	Stats struct {
		// Eps is the softening scale used when computing potential
		// energies. Zero disables the potential energy column.
		Eps float64
	}
}

// DefaultConfig returns a Config with every variable set to its default.
func DefaultConfig() *Config {
	cfg := &Config{ }
	cfg.Convert.Output = "halos.binc"
	cfg.Convert.Level = 3
	cfg.Stats.Eps = 0.0
	return cfg
}

// ParseConfigFile reads configuration variables from an ini-style config
// file on top of the defaults.
//
// An example config file:
//
//	[convert]
//	output = my_halos.binc
//	level = 9
//
//	[stats]
//	eps = 0.01
func ParseConfigFile(fileName string) (*Config, error) {
	cfg := DefaultConfig()
	if err := gcfg.ReadFileInto(cfg, fileName); err != nil {
		return nil, fmt.Errorf("The config file %s could not be parsed: %s",
			fileName, err.Error())
	}

	if cfg.Convert.Level < 1 || cfg.Convert.Level > 20 {
		return nil, fmt.Errorf("The config file %s sets level = %d, but "+
			"zstd compression levels run from 1 to 20.",
			fileName, cfg.Convert.Level)
	}
	if cfg.Stats.Eps < 0 {
		return nil, fmt.Errorf("The config file %s sets eps = %g, but the "+
			"softening scale cannot be negative.", fileName, cfg.Stats.Eps)
	}

	return cfg, nil
}
