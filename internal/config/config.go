package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// WindowConfig holds initial window settings
type WindowConfig struct {
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
	Title     string `mapstructure:"title"`
	TargetFPS int    `mapstructure:"targetFps"`
}

// TitleFor returns the window title for a view of subject
func (w WindowConfig) TitleFor(subject string) string {
	if subject == "" {
		return w.Title
	}
	return w.Title + " - " + subject
}

// CameraConfig holds the perspective camera settings
type CameraConfig struct {
	Fov  float64 `mapstructure:"fov"`
	Near float64 `mapstructure:"near"`
	Far  float64 `mapstructure:"far"`
}

// ControlsConfig holds camera control tuning
type ControlsConfig struct {
	Damping     float64 `mapstructure:"damping"`
	RotateSpeed float64 `mapstructure:"rotateSpeed"`
	PanSpeed    float64 `mapstructure:"panSpeed"`
	ZoomSpeed   float64 `mapstructure:"zoomSpeed"`
	MinDistance float64 `mapstructure:"minDistance"`
	MaxDistance float64 `mapstructure:"maxDistance"`
}

// HighlightConfig holds hover highlight settings
type HighlightConfig struct {
	Color string `mapstructure:"color"`
}

// StorageConfig holds annotation persistence settings
type StorageConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // empty means <model>.gopin.db
}

// TexturesConfig holds the showcase photo cube sources
type TexturesConfig struct {
	URLs    []string `mapstructure:"urls"`
	MaxSize uint     `mapstructure:"maxSize"`
	Timeout string   `mapstructure:"timeout"`
}

// S3Config holds object storage access for s3:// models and snapshot uploads
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"accessKey"`
	SecretKey string `mapstructure:"secretKey"`
}

// SnapshotConfig holds headless render settings
type SnapshotConfig struct {
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
	Thumbnail uint   `mapstructure:"thumbnail"`
	Color     string `mapstructure:"color"`
}

// Config is the complete application configuration
type Config struct {
	LogLevel  string          `mapstructure:"logLevel"`
	Window    WindowConfig    `mapstructure:"window"`
	Camera    CameraConfig    `mapstructure:"camera"`
	Controls  ControlsConfig  `mapstructure:"controls"`
	Highlight HighlightConfig `mapstructure:"highlight"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Textures  TexturesConfig  `mapstructure:"textures"`
	S3        S3Config        `mapstructure:"s3"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("window.width", 1400)
	v.SetDefault("window.height", 900)
	v.SetDefault("window.title", "GoPin")
	v.SetDefault("window.targetFps", 60)

	v.SetDefault("camera.fov", 75.0)
	v.SetDefault("camera.near", 0.1)
	v.SetDefault("camera.far", 1000.0)

	v.SetDefault("controls.damping", 5.0)
	v.SetDefault("controls.rotateSpeed", 0.005)
	v.SetDefault("controls.panSpeed", 0.001)
	v.SetDefault("controls.zoomSpeed", 0.1)
	v.SetDefault("controls.minDistance", 0.5)
	v.SetDefault("controls.maxDistance", 500.0)

	v.SetDefault("highlight.color", "orange")

	v.SetDefault("storage.enabled", true)
	v.SetDefault("storage.path", "")

	urls := make([]string, 6)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://picsum.photos/200/300?random=%d", i)
	}
	v.SetDefault("textures.urls", urls)
	v.SetDefault("textures.maxSize", 256)
	v.SetDefault("textures.timeout", "10s")

	v.SetDefault("s3.region", "us-east-1")

	v.SetDefault("snapshot.width", 1024)
	v.SetDefault("snapshot.height", 768)
	v.SetDefault("snapshot.thumbnail", 256)
	v.SetDefault("snapshot.color", "#6496c8")
}

// Load reads the optional config file at path (YAML, JSON or TOML by
// extension), applies GOPIN_* environment overrides and returns the result.
// An empty path only applies defaults and environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GOPIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("config file not found: %w", err)
			}
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		return fmt.Errorf("invalid camera fov %v", c.Camera.Fov)
	}
	if c.Controls.MinDistance <= 0 || c.Controls.MaxDistance < c.Controls.MinDistance {
		return fmt.Errorf("invalid control distance range [%v, %v]", c.Controls.MinDistance, c.Controls.MaxDistance)
	}
	return nil
}
