package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ccdid/idwallet"
)

const (
	defaultConfigName = ".idwallet"
	envPrefix         = "IDWALLET"

	keyLogLevel  = "log-level"
	keyLogFormat = "log-format"
	keyOutput    = "output"
)

// app is what the subcommands share once the configuration is loaded.
type app struct {
	conf   *viper.Viper
	log    *logrus.Logger
	wallet *idwallet.Wallet
}

// loadConfig reads the config file, when there is one, and the IDWALLET_ environment on top of
// the defaults. Flags given on the command line take precedence over both.
func loadConfig(file string, flags *pflag.FlagSet) (*viper.Viper, error) {
	conf := viper.New()
	conf.SetDefault(keyLogLevel, "warning")
	conf.SetDefault(keyLogFormat, "text")
	conf.SetDefault(keyOutput, "-")

	if file != "" {
		conf.SetConfigFile(file)
	} else {
		conf.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			conf.AddConfigPath(home)
		}
		conf.SetConfigName(defaultConfigName)
	}

	conf.SetEnvPrefix(envPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()

	if err := conf.BindPFlags(flags); err != nil {
		return nil, errors.WrapPrefix(err, "failed to bind flags", 0)
	}

	if err := conf.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errors.WrapPrefix(err, "failed to read config "+conf.ConfigFileUsed(), 0)
		}
	}
	return conf, nil
}

func newLogger(conf *viper.Viper, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.Out = out

	level, err := logrus.ParseLevel(conf.GetString(keyLogLevel))
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	switch format := conf.GetString(keyLogFormat); format {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Errorf("unknown log format %q", format)
	}
	return logger, nil
}

func newApp(file string, flags *pflag.FlagSet, stderr io.Writer) (*app, error) {
	conf, err := loadConfig(file, flags)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(conf, stderr)
	if err != nil {
		return nil, err
	}
	if used := conf.ConfigFileUsed(); used != "" {
		logger.WithField("file", used).Debug("Loaded configuration")
	}
	return &app{
		conf:   conf,
		log:    logger,
		wallet: idwallet.New(idwallet.WithLogger(logger)),
	}, nil
}

// readInput reads the document at path, or stdin for "-".
func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		bts, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.WrapPrefix(err, "failed to read stdin", 0)
		}
		return string(bts), nil
	}
	bts, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", errors.WrapPrefix(err, "failed to read input", 0)
	}
	return string(bts), nil
}

// writeOutput writes the document to the configured output, stdout for "-".
func (a *app) writeOutput(doc string, stdout io.Writer) error {
	path := a.conf.GetString(keyOutput)
	if path == "-" || path == "" {
		_, err := io.WriteString(stdout, doc+"\n")
		return err
	}
	if err := os.WriteFile(filepath.Clean(path), []byte(doc+"\n"), 0600); err != nil {
		return errors.WrapPrefix(err, "failed to write output", 0)
	}
	a.log.WithField("file", path).Debug("Wrote output")
	return nil
}
