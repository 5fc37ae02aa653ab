package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/content"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/layout"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/render"
)

// EnvPrefix prefixes environment overrides, e.g. XTCEVIEW_DRAWING_SCALE.
const EnvPrefix = "XTCEVIEW"

// Config keys
const (
	KeyShowAllNamespaces  = "aliases.show_all_namespaces"
	KeyShowNamespaceNames = "aliases.show_namespace_names"
	KeyPreferredNamespace = "aliases.preferred_namespace"
	KeyOrientation        = "drawing.orientation"
	KeyFontSize           = "drawing.font_size"
	KeyScale              = "drawing.scale"
	KeyTheme              = "drawing.theme"
	KeyServerAddr         = "server.addr"
	KeyLogLevel           = "log.level"
)

// Config stores the application settings
type Config struct {
	Aliases     content.AliasPreferences
	Orientation layout.Orientation
	FontSize    float64
	Scale       int
	Theme       render.ColorTheme
	ServerAddr  string
	LogLevel    string

	// File is the config file that was read, empty when defaults are used.
	File string
}

// LayoutOptions returns the layout options for the configured scale.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{Scale: c.Scale}
}

// Dir returns the platform config directory.
func Dir() (string, error) {
	if appData := os.Getenv("APPDATA"); appData != "" {
		// Windows: %APPDATA%\XTCEView
		return filepath.Join(appData, "XTCEView"), nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "xtceview"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "locate home directory")
	}
	// Linux/macOS: ~/.config/xtceview
	return filepath.Join(home, ".config", "xtceview"), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyShowAllNamespaces, false)
	v.SetDefault(KeyShowNamespaceNames, false)
	v.SetDefault(KeyPreferredNamespace, "")
	v.SetDefault(KeyOrientation, layout.LeftToRight.String())
	v.SetDefault(KeyFontSize, render.DefaultFontSize)
	v.SetDefault(KeyScale, layout.DefaultScale)
	v.SetDefault(KeyTheme, render.ThemeNames[render.ThemeClassic])
	v.SetDefault(KeyServerAddr, "localhost:8080")
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration. An explicit path must exist; without one
// the config directory is searched and a missing file means defaults.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else {
		v.SetConfigName("config")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	orientation, err := layout.ParseOrientation(v.GetString(KeyOrientation))
	if err != nil {
		return nil, errors.Wrapf(err, "config key %s", KeyOrientation)
	}
	theme, ok := render.ParseTheme(v.GetString(KeyTheme))
	if !ok {
		return nil, errors.Errorf("config key %s: unknown theme %q", KeyTheme, v.GetString(KeyTheme))
	}
	scale := v.GetInt(KeyScale)
	if scale <= 0 {
		return nil, errors.Errorf("config key %s: scale must be positive, got %d", KeyScale, scale)
	}
	return &Config{
		Aliases: content.AliasPreferences{
			ShowAllNamespaces:  v.GetBool(KeyShowAllNamespaces),
			ShowNamespaceNames: v.GetBool(KeyShowNamespaceNames),
			PreferredNamespace: v.GetString(KeyPreferredNamespace),
		},
		Orientation: orientation,
		FontSize:    v.GetFloat64(KeyFontSize),
		Scale:       scale,
		Theme:       theme,
		ServerAddr:  v.GetString(KeyServerAddr),
		LogLevel:    v.GetString(KeyLogLevel),
		File:        v.ConfigFileUsed(),
	}, nil
}

// Save writes the configuration to path. The format follows the extension.
// An empty path writes config.toml in the config directory.
func Save(c *Config, path string) error {
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create config directory")
	}

	v := viper.New()
	v.Set(KeyShowAllNamespaces, c.Aliases.ShowAllNamespaces)
	v.Set(KeyShowNamespaceNames, c.Aliases.ShowNamespaceNames)
	v.Set(KeyPreferredNamespace, c.Aliases.PreferredNamespace)
	v.Set(KeyOrientation, c.Orientation.String())
	v.Set(KeyFontSize, c.FontSize)
	v.Set(KeyScale, c.Scale)
	v.Set(KeyTheme, render.ThemeNames[c.Theme])
	v.Set(KeyServerAddr, c.ServerAddr)
	v.Set(KeyLogLevel, c.LogLevel)
	if err := v.WriteConfigAs(path); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}
