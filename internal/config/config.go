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

// Application is the root configuration. Host is the public origin the
// frontend is served from and feeds the CORS allow-list; Listen is the
// address the HTTP server binds to.
type Application struct {
	Host      string    `koanf:"host"`
	Listen    string    `koanf:"listen"`
	Frontend  Frontend  `koanf:"frontend"`
	Database  Database  `koanf:"db"`
	Retention Retention `koanf:"retention"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

// Database selects the storage engine. Driver is either "sqlite" or
// "postgres"; Path is only used by sqlite, the remaining fields only by
// postgres.
type Database struct {
	Driver string `koanf:"driver"`
	Path   string `koanf:"path"`
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

// Retention configures the janitor that purges soft-deleted rows.
type Retention struct {
	Enabled bool   `koanf:"enabled"`
	Days    int    `koanf:"days"`
	Cron    string `koanf:"cron"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host:   "http://localhost:3000",
		Listen: ":8181",
		Frontend: Frontend{
			Enabled: true,
		},
		Database: Database{
			Driver: "sqlite",
			Path:   "planj.db",
			Host:   "localhost",
			Port:   5432,
			User:   "planj",
			Pass:   "",
			Name:   "planj",
			Schema: "planj",
		},
		Retention: Retention{
			Enabled: false,
			Days:    30,
			Cron:    "0 4 * * *",
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
		Prefix: "PLANJ_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "PLANJ_")), "_", ".")
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
