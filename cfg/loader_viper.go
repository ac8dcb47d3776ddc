package cfg

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "GSAFEED"

type ViperLoader struct {
	v                     *viper.Viper
	configFile            string
	once                  sync.Once
	mu                    sync.RWMutex
	cfg                   *Config
	configChangeCallbacks []func(*Config)
}

// NewViperLoader reads cfg/yaml/mode.yaml unless configFile points somewhere else.
func NewViperLoader(configFile string) (*ViperLoader, error) {
	return &ViperLoader{
		v:                     viper.New(),
		configFile:            configFile,
		configChangeCallbacks: make([]func(*Config), 0),
	}, nil
}

func (yl *ViperLoader) Load() (*Config, error) {
	var err error
	yl.once.Do(func() {
		err = yl.loadConfig()
		if err == nil && yl.IsWatchChange() {
			yl.v.WatchConfig()
			yl.v.OnConfigChange(func(e fsnotify.Event) {
				fmt.Printf("[INFO][CONFIG] Config file changed: %s\n", e.Name)
				if errReload := yl.reloadConfig(); errReload != nil {
					fmt.Printf("[ERROR][CONFIG] Failed to reload config: %v\n", errReload)
				}
			})
		}
	})

	if err != nil {
		return nil, err
	}

	yl.mu.RLock()
	defer yl.mu.RUnlock()
	return yl.cfg, nil
}

func (yl *ViperLoader) IsWatchChange() bool {
	return yl.v.GetBool("app.watchconfig")
}

func (yl *ViperLoader) RegisterConfigChangeCallback(callback func(*Config)) {
	yl.mu.Lock()
	yl.configChangeCallbacks = append(yl.configChangeCallbacks, callback)
	yl.mu.Unlock()
}

func (yl *ViperLoader) loadConfig() error {
	// A missing .env is the normal case
	_ = godotenv.Load()

	if yl.configFile != "" {
		yl.v.SetConfigFile(yl.configFile)
		if ext := strings.TrimPrefix(filepath.Ext(yl.configFile), "."); ext != "" {
			yl.v.SetConfigType(ext)
		}
	} else {
		yl.v.AddConfigPath("cfg/yaml")
		yl.v.SetConfigName("mode")
		yl.v.SetConfigType("yaml")
	}

	yl.v.SetEnvPrefix(envPrefix)
	yl.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	yl.v.AutomaticEnv()
	bindEnvKeys(yl.v)

	if err := yl.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Positional args and env are enough to run without a file
		if yl.configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("[ERROR][CONFIG] failed to read config file: %w", err)
		}
	}

	cfg, err := yl.unmarshal()
	if err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config: %w", err)
	}

	yl.mu.Lock()
	yl.cfg = cfg
	yl.mu.Unlock()

	return nil
}

func (yl *ViperLoader) reloadConfig() error {
	cfg, err := yl.unmarshal()
	if err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config during reload: %w", err)
	}

	yl.mu.Lock()
	yl.cfg = cfg

	callbacks := make([]func(*Config), len(yl.configChangeCallbacks))
	copy(callbacks, yl.configChangeCallbacks)
	yl.mu.Unlock()
	for _, callback := range callbacks {
		go callback(cfg)
	}

	fmt.Println("[INFO][CONFIG] Configuration reloaded successfully")
	return nil
}

func (yl *ViperLoader) unmarshal() (*Config, error) {
	cfg := &Config{}
	if err := yl.v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// AutomaticEnv only resolves keys viper already knows about, so every leaf is bound explicitly.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"app.name", "app.version", "app.logformat", "app.loglevel", "app.watchconfig",
		"mysql.enabled", "mysql.host", "mysql.port", "mysql.username", "mysql.password", "mysql.database",
		"githubapi.accesstoken", "githubapi.apiurl", "githubapi.perpage", "githubapi.requestspersecond",
		"githubapi.timeout", "githubapi.maxpages",
		"gsa.server", "gsa.datasource", "gsa.port", "gsa.feedpath", "gsa.timeout",
		"output.mode", "output.dir", "output.pretty",
		"kafka.brokers", "kafka.topic", "kafka.groupid",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}
