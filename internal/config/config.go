package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPI     = "http://localhost:5000/api"
	DefaultLogFile = "questree.log"
	DefaultEnvFile = ".env"
)

// Config holds the root flags shared by every subcommand.
type Config struct {
	API     string
	Timeout time.Duration
	Theme   string
	NoColor bool
	LogFile string
	Debug   bool
}

// LoadEnv reads an optional .env file. A missing file is fine; a malformed
// one is an error. Variables already set in the environment are left untouched.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Parse reads root flags from args. QUESTREE_API and QUESTREE_LOG seed the
// defaults, so an explicit flag always wins.
func Parse(fs *flag.FlagSet, args []string) (cfg Config, err error) {
	fs.StringVar(&cfg.API, "api", envOr("QUESTREE_API", DefaultAPI), "base URL of the questions API")
	fs.DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "per-request timeout")
	fs.StringVar(&cfg.Theme, "theme", "classic", "color theme: classic, neon or mono")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "disable ANSI colors")
	fs.StringVar(&cfg.LogFile, "log-file", envOr("QUESTREE_LOG", DefaultLogFile), `diagnostic log file ("-" for stderr)`)
	fs.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	if err = fs.Parse(args); err != nil {
		return
	}

	cfg.API = strings.TrimRight(strings.TrimSpace(cfg.API), "/")
	u, perr := url.Parse(cfg.API)
	if perr != nil || u.Scheme == "" || u.Host == "" {
		err = errors.New("invalid -api URL: " + cfg.API)
		return
	}
	if cfg.Timeout <= 0 {
		err = errors.New("-timeout must be positive")
	}
	return
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
