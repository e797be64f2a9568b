package cmd

import (
	"github.com/adrg/xdg"
	"github.com/apex/log"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// config holds CLI defaults loaded from the user's config file.
type config struct {
	WidthUnit           string
	HeightUnit          string
	PreserveAspectRatio bool
	Format              string
}

func defaultConfig() config {
	return config{
		WidthUnit:           "auto",
		HeightUnit:          "auto",
		PreserveAspectRatio: true,
		Format:              "png",
	}
}

// loadConfig reads $XDG_CONFIG_HOME/iimg/config.toml when present,
// falling back to built-in defaults otherwise.
func loadConfig() config {
	cfg := defaultConfig()

	path, err := xdg.SearchConfigFile("iimg/config.toml")
	if err != nil {
		return cfg
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		log.WithError(err).Warnf("ignoring unreadable config %s", path)
		return cfg
	}

	if v := k.String("display.width_unit"); v != "" {
		cfg.WidthUnit = v
	}
	if v := k.String("display.height_unit"); v != "" {
		cfg.HeightUnit = v
	}
	if k.Exists("display.preserve_aspect_ratio") {
		cfg.PreserveAspectRatio = k.Bool("display.preserve_aspect_ratio")
	}
	if v := k.String("display.format"); v != "" {
		cfg.Format = v
	}
	return cfg
}
