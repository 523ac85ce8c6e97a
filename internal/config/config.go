package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host     string   `koanf:"host"`
	Frontend Frontend `koanf:"frontend"`
	Google   Google   `koanf:"google"`
	Gemini   Gemini   `koanf:"gemini"`
	Cache    Cache    `koanf:"cache"`
	Display  Display  `koanf:"display"`
	Database Database `koanf:"db"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

type Google struct {
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
}

type Gemini struct {
	ApiKey  string `koanf:"apikey"`
	Model   string `koanf:"model"`
	BaseUrl string `koanf:"baseurl"`
}

// Cache controls the bulk prefetch window around the selected month and the
// staleness threshold after which a covered month is refetched anyway.
type Cache struct {
	MonthsBack    int `koanf:"monthsback"`
	MonthsForward int `koanf:"monthsforward"`
	MaxEvents     int `koanf:"maxevents"`
	TtlMinutes    int `koanf:"ttlminutes"`
}

type Display struct {
	Timezone string `koanf:"timezone"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:3000",
		Frontend: Frontend{
			Enabled: true,
		},
		Gemini: Gemini{
			Model:   "gemini-3-flash-preview",
			BaseUrl: "https://generativelanguage.googleapis.com",
		},
		Cache: Cache{
			MonthsBack:    12,
			MonthsForward: 12,
			MaxEvents:     2000,
			TtlMinutes:    10,
		},
		Display: Display{
			Timezone: "Asia/Seoul",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "calboard",
			Pass:   "",
			Name:   "calboard",
			Schema: "calboard",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "CALBOARD_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "CALBOARD_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
