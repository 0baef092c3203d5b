package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/idilsaglam/questree/internal/api"
	"github.com/idilsaglam/questree/internal/auth"
	"github.com/idilsaglam/questree/internal/cli"
	"github.com/idilsaglam/questree/internal/config"
	"github.com/idilsaglam/questree/internal/log"
	"github.com/idilsaglam/questree/internal/ui"
)

func main() {
	envErr := config.LoadEnv(config.DefaultEnvFile)

	// Root flags (apply to every subcommand)
	flag.Usage = cli.PrintHelp
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		ui.Fail(err.Error())
		os.Exit(2)
	}

	closer, err := log.Open(cfg.LogFile)
	if err != nil {
		ui.Fail("log file: " + err.Error())
		os.Exit(1)
	}
	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	if envErr != nil {
		log.Errorf("env: %v", envErr)
		ui.Fail("env: " + envErr.Error())
		closer.Close()
		os.Exit(1)
	}

	ui.SetTheme(cfg.Theme)
	if cfg.NoColor {
		ui.SetColorForcing(false, true)
	}

	var token string
	if ti, err := auth.GetToken(); err != nil {
		log.Warnf("credentials: %v", err)
	} else if ti != nil {
		if ti.Expired(time.Now()) {
			log.Warnf("token from %s expired at %s", ti.Source, ti.ExpiresAt.Format(time.RFC3339))
		}
		token = ti.Token
	}

	client := api.New(cfg.API, api.Options{Token: token, Timeout: cfg.Timeout})
	log.WithField("api", cfg.API).Debugf("starting")

	// Hand the remaining args to the CLI runner.
	code := cli.Run(flag.Args(), cli.Options{Client: client, Timeout: cfg.Timeout})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	closer.Close()
	os.Exit(code)
}
