// Package config loads client configuration for the bitstamp CLI from
// a YAML file or command-line flags. Credentials may also come from
// the BITSTAMP_API_KEY and BITSTAMP_API_SECRET environment variables.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimeout = 5 * time.Second
	defaultPair    = "BTC_USD"
)

type Config struct {
	Key        string
	Secret     string
	Host       string
	Timeout    time.Duration
	Currencies []string
	MaxPages   int
	Pair       Pair
}

type Pair struct {
	Base  string
	Quote string
}

type configTmp struct {
	Key        string        `yaml:"key,omitempty"`
	Secret     string        `yaml:"secret,omitempty"`
	Host       string        `yaml:"host,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	Currencies []string      `yaml:"currencies,omitempty"`
	MaxPages   int           `yaml:"max_pages,omitempty"`
	Pair       string        `yaml:"pair,omitempty"`
}

func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	pairFlag := flag.String("pair", defaultPair, "currency pair, example: BTC_USD")
	host := flag.String("host", "", "exchange API host override")
	timeout := flag.Duration("timeout", defaultTimeout, "per-request timeout")
	maxPages := flag.Int("maxpages", 0, "transaction history page cap, 0 means unlimited")
	flag.Parse()

	var cfg Config
	var err error
	if *configPath != "" {
		cfg, err = getYaml(*configPath)
		if err != nil {
			return Config{}, err
		}
	} else {
		pair, err := pairFromString(*pairFlag)
		if err != nil {
			return Config{}, fmt.Errorf("invalid --pair provided, --pair=%s", *pairFlag)
		}
		cfg = Config{
			Host:     *host,
			Timeout:  *timeout,
			MaxPages: *maxPages,
			Pair:     pair,
		}
	}

	if cfg.Key == "" {
		cfg.Key = os.Getenv("BITSTAMP_API_KEY")
	}
	if cfg.Secret == "" {
		cfg.Secret = os.Getenv("BITSTAMP_API_SECRET")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	return cfg, nil
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp configTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, err
	}

	pairStr := tmp.Pair
	if pairStr == "" {
		pairStr = defaultPair
	}
	pair, err := pairFromString(pairStr)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'pair' param in yaml config: %s, error: %w", tmp.Pair, err)
	}

	return Config{
		Key:        tmp.Key,
		Secret:     tmp.Secret,
		Host:       tmp.Host,
		Timeout:    tmp.Timeout,
		Currencies: tmp.Currencies,
		MaxPages:   tmp.MaxPages,
		Pair:       pair,
	}, nil
}

func pairFromString(s string) (Pair, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 2 {
		return Pair{}, fmt.Errorf("invalid pair param")
	}
	return Pair{Base: parts[0], Quote: parts[1]}, nil
}
