// Package configloader reads service configuration from a YAML file, a .env file
// and the process environment, in increasing order of priority.
package configloader

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	defaultConfigFile = "config.yaml"
	defaultEnvFile    = ".env"
)

type Validator interface {
	Validate() error
}

// Sources lists the files read by LoadFrom. Missing files are skipped.
type Sources struct {
	ConfigFile string
	EnvFile    string
}

// Load reads config.yaml and .env from the working directory, then the environment.
// Environment variables are prefixed with the upper-cased service name, e.g. PRODUCT_SERVER_PORT
// sets server.port. <PREFIX>CONFIG_FILE overrides the YAML file location.
func Load[T Validator](serviceName string) (T, error) {
	src := Sources{ConfigFile: defaultConfigFile, EnvFile: defaultEnvFile}
	if path := os.Getenv(envPrefix(serviceName) + "CONFIG_FILE"); path != "" {
		src.ConfigFile = path
	}
	return LoadFrom[T](serviceName, src)
}

// LoadFrom is Load with explicit file locations.
func LoadFrom[T Validator](serviceName string, src Sources) (T, error) {
	var cfg T
	k := koanf.New(".")
	prefix := envPrefix(serviceName)
	transform := keyTransformer(prefix)

	// 1. yaml file
	if src.ConfigFile != "" {
		if err := k.Load(file.Provider(src.ConfigFile), yaml.Parser()); err != nil && !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config file '%s': %v", src.ConfigFile, err)
		}
	}

	// 2. .env file
	if src.EnvFile != "" {
		if envFileMap, err := godotenv.Read(src.EnvFile); err == nil {
			envMap := make(map[string]any)
			for key, value := range envFileMap {
				if !strings.HasPrefix(strings.ToUpper(key), prefix) {
					continue
				}
				envMap[transform(key)] = value
			}
			if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
				log.Printf("WARN: error loading .env config: %v", err)
			}
		} else if !os.IsNotExist(err) {
			log.Printf("WARN: error reading .env file: %v", err)
		}
	}

	// 3. system environment, the highest priority
	if err := k.Load(env.Provider(prefix, ".", transform), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func envPrefix(serviceName string) string {
	return strings.ToUpper(serviceName) + "_"
}

// keyTransformer maps PRODUCT_SERVER_PORT to server.port.
func keyTransformer(prefix string) func(string) string {
	lowerPrefix := strings.ToLower(prefix)
	return func(key string) string {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, lowerPrefix)
		return strings.ReplaceAll(key, "_", ".")
	}
}
