package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"tasklist/pkg/keymaps"
	"tasklist/pkg/storage"
	"tasklist/pkg/theme"
)

// AppName names the config directory and environment prefix
const AppName = "tasklist"

// Config holds the application configuration
type Config struct {
	Storage    storage.Config    `mapstructure:"storage"`
	KeyMap     map[string]string `mapstructure:"keymap"`
	StylesFile string            `mapstructure:"styles_file"`
}

// Styles holds the application colors for one theme
type Styles struct {
	// UI element colors
	BorderColor string `mapstructure:"border_color"`
	AccentColor string `mapstructure:"accent_color"`

	// Text colors
	NormalTextColor   string `mapstructure:"normal_text_color"`
	MutedTextColor    string `mapstructure:"muted_text_color"`
	SelectedTextColor string `mapstructure:"selected_text_color"`
	SelectedBgColor   string `mapstructure:"selected_bg_color"`
	ErrorColor        string `mapstructure:"error_color"`
	DoneColor         string `mapstructure:"done_color"`
}

// Palettes holds one Styles per theme
type Palettes struct {
	Light Styles `mapstructure:"light"`
	Dark  Styles `mapstructure:"dark"`
}

// For returns the palette matching t.
func (p Palettes) For(t theme.Theme) Styles {
	if t.IsDark() {
		return p.Dark
	}
	return p.Light
}

// DefaultPalettes returns the built-in colors.
func DefaultPalettes() Palettes {
	return Palettes{
		Dark: Styles{
			BorderColor:       "240",
			AccentColor:       "205",
			NormalTextColor:   "86",
			MutedTextColor:    "245",
			SelectedTextColor: "229",
			SelectedBgColor:   "57",
			ErrorColor:        "9",
			DoneColor:         "2",
		},
		Light: Styles{
			BorderColor:       "250",
			AccentColor:       "161",
			NormalTextColor:   "24",
			MutedTextColor:    "243",
			SelectedTextColor: "231",
			SelectedBgColor:   "62",
			ErrorColor:        "160",
			DoneColor:         "28",
		},
	}
}

// DefaultDir returns ~/.config/tasklist.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", AppName), nil
}

// Load reads the configuration at configPath, or the default location when
// configPath is empty. Missing config and styles files are created with
// default values. TASKLIST_* environment variables override file values,
// e.g. TASKLIST_STORAGE_BACKEND.
func Load(configPath string) (Config, Palettes, error) {
	var configDir string
	if configPath == "" {
		dir, err := DefaultDir()
		if err != nil {
			return Config{}, Palettes{}, err
		}
		configDir = dir
		configPath = filepath.Join(configDir, "config.json")
	} else {
		configDir = filepath.Dir(configPath)
	}

	v := newViper(configPath)
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("storage.backend", storage.BackendSQLite)
	v.SetDefault("storage.path", filepath.Join(configDir, "tasks.db"))
	v.SetDefault("storage.dsn", "")
	v.SetDefault("keymap", keymaps.GetDefaultKeyMappings())
	v.SetDefault("styles_file", filepath.Join(configDir, "styles.json"))

	if err := readOrCreate(v, configPath); err != nil {
		return Config{}, Palettes{}, fmt.Errorf("error loading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, Palettes{}, fmt.Errorf("error parsing config: %w", err)
	}

	palettes, err := loadStyles(cfg.StylesFile)
	if err != nil {
		return cfg, palettes, fmt.Errorf("error loading styles: %w", err)
	}
	return cfg, palettes, nil
}

// loadStyles loads the color palettes from the specified path
func loadStyles(stylesPath string) (Palettes, error) {
	defaults := DefaultPalettes()

	v := newViper(stylesPath)
	for name, styles := range map[string]Styles{"light": defaults.Light, "dark": defaults.Dark} {
		v.SetDefault(name+".border_color", styles.BorderColor)
		v.SetDefault(name+".accent_color", styles.AccentColor)
		v.SetDefault(name+".normal_text_color", styles.NormalTextColor)
		v.SetDefault(name+".muted_text_color", styles.MutedTextColor)
		v.SetDefault(name+".selected_text_color", styles.SelectedTextColor)
		v.SetDefault(name+".selected_bg_color", styles.SelectedBgColor)
		v.SetDefault(name+".error_color", styles.ErrorColor)
		v.SetDefault(name+".done_color", styles.DoneColor)
	}

	if err := readOrCreate(v, stylesPath); err != nil {
		return defaults, err
	}

	var palettes Palettes
	if err := v.Unmarshal(&palettes); err != nil {
		return defaults, err
	}
	return palettes, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	return v
}

// readOrCreate reads path into v, writing v's defaults to path first if the
// file doesn't exist
func readOrCreate(v *viper.Viper, path string) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return v.WriteConfigAs(path)
}
