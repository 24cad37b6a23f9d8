package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/talebox/pkg/adapters/process"
	"github.com/spf13/viper"
)

// Config holds the player configuration.
type Config struct {
	Library  LibraryConfig           `mapstructure:"library"`
	Input    InputConfig             `mapstructure:"input"`
	Overlay  OverlayConfig           `mapstructure:"overlay"`
	Audio    AudioConfig             `mapstructure:"audio"`
	Commands []process.ProcessConfig `mapstructure:"commands"`
	HTTP     HTTPConfig              `mapstructure:"http"`
	Log      LogConfig               `mapstructure:"log"`
}

// LibraryConfig locates the books.
type LibraryConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

// InputConfig selects the button source. An empty device reads the terminal.
type InputConfig struct {
	Device string `mapstructure:"device"`
}

// OverlayConfig locates the overlay images (volumeNN.png, pause.png, ...).
type OverlayConfig struct {
	Dir     string        `mapstructure:"dir"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AudioConfig holds playback settings.
type AudioConfig struct {
	Volume int `mapstructure:"volume"`
	// CommandsFile is an optional commands.yaml merged over Commands.
	CommandsFile string `mapstructure:"commands_file"`
}

// HTTPConfig holds the remote control settings. An empty address disables it.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from path, or from the default locations when path
// is empty, and from env. Env var overrides use prefix TALEBOX_.
// A missing file in a default location is not an error.
func Load(path string) (Config, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()

	// default values
	v.SetDefault("library.path", filepath.Join(home, "talebox", "library"))
	v.SetDefault("library.watch", true)
	v.SetDefault("input.device", "")
	v.SetDefault("overlay.dir", filepath.Join(home, "talebox", "overlays"))
	v.SetDefault("overlay.timeout", "800ms")
	v.SetDefault("audio.volume", process.DefaultVolume)
	v.SetDefault("audio.commands_file", "")
	v.SetDefault("commands", []map[string]any{
		{"name": process.CommandPlayer, "command": "mpg123", "args": []string{"-q", "-"}},
		{"name": process.CommandMixer, "command": "sh", "args": []string{"-c", `amixer -q sset Master "${TALEBOX_ARG_PERCENT}%"`}},
	})
	v.SetDefault("http.addr", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigType("yaml")

	if path == "" {
		path = os.Getenv("TALEBOX_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "talebox"))
		v.AddConfigPath("/etc/talebox")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TALEBOX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Registry returns the external commands: Commands, overridden by the entries
// of Audio.CommandsFile.
func (c Config) Registry() (map[string]process.ProcessConfig, error) {
	commands := make(map[string]process.ProcessConfig, len(c.Commands))
	for _, cmd := range c.Commands {
		if cmd.Name == "" || cmd.Command == "" {
			continue
		}
		commands[cmd.Name] = cmd
	}
	if c.Audio.CommandsFile == "" {
		return commands, nil
	}

	extra, err := process.LoadCommands(c.Audio.CommandsFile)
	if err != nil {
		return nil, err
	}
	for name, cmd := range extra {
		commands[name] = cmd
	}
	return commands, nil
}
