package main

import (
	"io"
	"log/slog"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/mutility/cli/run"

	"github.com/mutility/datebound/boundary"
)

// Configuration keys. Each may be set in the config file, by a DATEBOUND_
// environment variable or by the flag of the same name with dashes.
const (
	keyInputFormat  = "input_format"
	keyOutputFormat = "output_format"
	keyNullText     = "null_text"
	keyVerbose      = "verbose"
)

func (a *app) globalFlags() []run.Flag {
	return []run.Flag{
		run.FileVar(&a.cfgFile, "config", "Config file (default is $HOME/.datebound.yaml)").Flags(0, "config", "FILE"),
		run.StringVar(&a.inFormat, keyInputFormat, "Pattern for text dates when input_format is omitted").
			Flags(0, flagName(keyInputFormat), boundary.DefaultPattern),
		run.StringVar(&a.outFormat, keyOutputFormat, "Pattern for results when output_format is omitted").
			Flags(0, flagName(keyOutputFormat), boundary.DefaultPattern),
		run.StringVar(&a.nullFlag, keyNullText, "Text printed for a null result").
			Flags(0, flagName(keyNullText), "NULL"),
		run.EnablerVar(&a.verbose, keyVerbose, "Log debug messages", true).Flags('v', keyVerbose),
	}
}

func flagName(key string) string { return strings.ReplaceAll(key, "_", "-") }

// initConfig reads in config file and ENV variables if set, then applies the
// flags given on the command line over them.
func (a *app) initConfig(stderr io.Writer) error {
	a.v.SetDefault(keyInputFormat, boundary.DefaultPattern)
	a.v.SetDefault(keyOutputFormat, boundary.DefaultPattern)
	a.v.SetDefault(keyNullText, "NULL")

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return errors.Wrap(err, "finding home directory")
		}
		a.v.AddConfigPath(home)
		a.v.SetConfigName(".datebound")
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix("datebound")
	a.v.AutomaticEnv()

	readErr := a.v.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(readErr, &notFound) {
			return errors.Wrap(readErr, "reading config")
		}
	}

	for key, val := range map[string]string{
		keyInputFormat:  a.inFormat,
		keyOutputFormat: a.outFormat,
		keyNullText:     a.nullFlag,
	} {
		if val != "" {
			a.v.Set(key, val)
		}
	}
	if a.verbose {
		a.v.Set(keyVerbose, true)
	}

	level := slog.LevelInfo
	if a.v.GetBool(keyVerbose) {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if readErr == nil {
		a.log.Debug("using config file", "file", a.v.ConfigFileUsed())
	}
	return nil
}

// formats returns the configured defaults for omitted format arguments.
func (a *app) formats() boundary.Formats {
	return boundary.Formats{
		Input:  a.v.GetString(keyInputFormat),
		Output: a.v.GetString(keyOutputFormat),
	}
}

func (a *app) funcs() []*boundary.Func {
	f := a.formats()
	return []*boundary.Func{boundary.NewFunc(boundary.FirstDay, f), boundary.NewFunc(boundary.LastDay, f)}
}

func (a *app) nullText() string { return a.v.GetString(keyNullText) }
