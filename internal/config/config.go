package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

const envPrefix = "FINTRACK_"

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Application struct {
	Host     string   `koanf:"host"`
	Port     int      `koanf:"port"`
	Locale   Locale   `koanf:"locale"`
	Charts   Charts   `koanf:"charts"`
	UI       UI       `koanf:"ui"`
	Data     Data     `koanf:"data"`
	Database Database `koanf:"db"`
}

type Locale struct {
	Language string `koanf:"language"`
	Currency string `koanf:"currency"`
}

type Charts struct {
	ResizeDebounce time.Duration `koanf:"resizedebounce"`
}

type UI struct {
	ToastLifetime  time.Duration `koanf:"toastlifetime"`
	SubmitFallback time.Duration `koanf:"submitfallback"`
}

type Data struct {
	// Source is either "file" or "postgres".
	Source string `koanf:"source"`
	File   string `koanf:"file"`
	UserId string `koanf:"userid"`
}

type Database struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Pass     string `koanf:"pass"`
	Name     string `koanf:"name"`
	Schema   string `koanf:"schema"`
	SSLMode  string `koanf:"sslmode"`
	MaxConns int    `koanf:"maxconns"`
}

func Defaults() Application {
	return Application{
		Host: "0.0.0.0",
		Port: 8181,
		Locale: Locale{
			Language: "en-US",
			Currency: "USD",
		},
		Charts: Charts{ResizeDebounce: 300 * time.Millisecond},
		UI: UI{
			ToastLifetime:  5 * time.Second,
			SubmitFallback: 3 * time.Second,
		},
		Data: Data{
			Source: SourceFile,
			File:   "./data/transactions.json",
		},
		Database: Database{
			Host:     "localhost",
			Port:     5432,
			User:     "fintrack",
			Name:     "fintrack",
			Schema:   "public",
			SSLMode:  "disable",
			MaxConns: 10,
		},
	}
}

// Load reads the configuration from defaults, the optional YAML file at path and
// FINTRACK_* environment variables, in that order of precedence. A .env file in the
// working directory is loaded into the environment first.
func Load(path string) (Application, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to load .env file: %v", err)
	}

	var k = koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
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

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
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
	if err := app.Validate(); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Validate reports every configuration problem at once.
func (a Application) Validate() error {
	var errs []error
	if a.Port <= 0 || a.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", a.Port))
	}
	if _, err := language.Parse(a.Locale.Language); err != nil {
		errs = append(errs, fmt.Errorf("locale.language %q: %w", a.Locale.Language, err))
	}
	if len(a.Locale.Currency) != 3 {
		errs = append(errs, fmt.Errorf("locale.currency %q is not an ISO 4217 code", a.Locale.Currency))
	}
	if a.Charts.ResizeDebounce <= 0 {
		errs = append(errs, errors.New("charts.resizedebounce must be positive"))
	}
	if a.UI.ToastLifetime <= 0 {
		errs = append(errs, errors.New("ui.toastlifetime must be positive"))
	}
	if a.UI.SubmitFallback <= 0 {
		errs = append(errs, errors.New("ui.submitfallback must be positive"))
	}
	switch a.Data.Source {
	case SourceFile:
		if a.Data.File == "" {
			errs = append(errs, errors.New("data.file is required for the file source"))
		}
	case SourcePostgres:
		if a.Database.Host == "" || a.Database.Name == "" {
			errs = append(errs, errors.New("db.host and db.name are required for the postgres source"))
		}
		if a.Data.UserId == "" {
			errs = append(errs, errors.New("data.userid is required for the postgres source"))
		}
	default:
		errs = append(errs, fmt.Errorf("data.source %q must be file or postgres", a.Data.Source))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (a Application) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}
