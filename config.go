package sgp4

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/viper"
)

const configEnv = "SGP4_CONFIG"

var (
	cfgOnce sync.Once
	config  = _sgp4config{}
)

// _sgp4config is a "hidden" struct, just use `Config()`
type _sgp4config struct {
	Gravity        GravityModel
	OpsMode        OpsMode
	OutputDir      string
	Workers        int
	MetricsListen  string
	loadedFromFile bool
}

// Config returns the package configuration. It is read once from conf.toml in
// the directory named by the SGP4_CONFIG environment variable; when that variable
// is unset the defaults (wgs72, improved mode, one worker per CPU)
// are used.
func Config() _sgp4config {
	cfgOnce.Do(func() {
		config = defaultConfig()
		confPath := os.Getenv(configEnv)
		if confPath == "" {
			return
		}
		v := viper.New()
		v.SetConfigName("conf")
		v.AddConfigPath(confPath)
		if err := v.ReadInConfig(); err != nil {
			Logger("config").Log("level", "warning", "message", "could not read configuration, using defaults", "path", confPath, "err", err)
			return
		}
		cfg, err := configFromViper(v)
		if err != nil {
			Logger("config").Log("level", "critical", "message", "invalid configuration, using defaults", "path", confPath, "err", err)
			return
		}
		config = cfg
	})
	return config
}

func defaultConfig() _sgp4config {
	return _sgp4config{Gravity: WGS72, OpsMode: OpsModeImproved, OutputDir: ".", Workers: runtime.NumCPU()}
}

// configFromViper reads the configuration keys from an already loaded viper instance.
func configFromViper(v *viper.Viper) (_sgp4config, error) {
	v.SetDefault("propagator.gravity", "wgs72")
	v.SetDefault("propagator.opsmode", "i")
	v.SetDefault("general.output_path", ".")
	v.SetDefault("batch.workers", runtime.NumCPU())
	v.SetDefault("metrics.listen", "")

	cfg := _sgp4config{loadedFromFile: true}
	var err error
	if cfg.Gravity, err = GravityModelFromString(v.GetString("propagator.gravity")); err != nil {
		return cfg, err
	}
	if cfg.OpsMode, err = OpsModeFromString(v.GetString("propagator.opsmode")); err != nil {
		return cfg, err
	}
	cfg.OutputDir = v.GetString("general.output_path")
	cfg.Workers = v.GetInt("batch.workers")
	if cfg.Workers < 1 {
		return cfg, fmt.Errorf("batch.workers must be positive, got %d", cfg.Workers)
	}
	cfg.MetricsListen = v.GetString("metrics.listen")
	return cfg, nil
}
