package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
	"github.com/outofforest/pulse"
)

const (
	defaultTCPAddress  = ":5100"
	defaultHTTPAddress = ":5180"
)

type config struct {
	TCP    string             `yaml:"tcp"`
	HTTP   string             `yaml:"http"`
	Log    logger.Config      `yaml:"log"`
	Server pulse.ServerConfig `yaml:"server"`
}

func main() {
	if err := run(os.Args[1:]); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flagSet := pflag.NewFlagSet("pulse-hub", pflag.ContinueOnError)
	cfg, err := parseConfig(flagSet, args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithLogger(ctx, logger.New(cfg.Log))

	server, err := pulse.NewServer(cfg.Server)
	if err != nil {
		return err
	}

	tcpLs, err := net.Listen("tcp", cfg.TCP)
	if err != nil {
		return errors.WithStack(err)
	}

	var httpLs net.Listener
	if cfg.HTTP != "" {
		httpLs, err = net.Listen("tcp", cfg.HTTP)
		if err != nil {
			_ = tcpLs.Close()
			return errors.WithStack(err)
		}
	}

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("tcp", parallel.Fail, func(ctx context.Context) error {
			return server.Run(ctx, tcpLs)
		})
		if httpLs != nil {
			spawn("http", parallel.Fail, func(ctx context.Context) error {
				return server.RunHTTP(ctx, httpLs)
			})
		}

		return nil
	})
}

func parseConfig(flagSet *pflag.FlagSet, args []string) (config, error) {
	cfg := config{
		TCP:  defaultTCPAddress,
		HTTP: defaultHTTPAddress,
		Log:  logger.DefaultConfig,
	}

	var configFile string
	flagSet.StringVar(&configFile, "config", "", "path to YAML config file")
	tcp := flagSet.String("tcp", defaultTCPAddress, "address of the TCP endpoint")
	http := flagSet.String("http", defaultHTTPAddress, "address of the websocket and status endpoint, empty disables it")
	maxMessageSize := flagSet.Uint64("max-message-size", pulse.DefaultMaxMessageSize, "maximum size of the message")
	queueLimit := flagSet.Int("queue-limit", 0, "number of unreliable frames buffered for each device")
	logger.AddFlags(logger.DefaultConfig, flagSet)

	if err := flagSet.Parse(args); err != nil {
		return config{}, errors.WithStack(err)
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return config{}, errors.WithStack(err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return config{}, errors.Wrapf(err, "parsing config file %q", configFile)
		}
	}

	if flagSet.Changed("tcp") {
		cfg.TCP = *tcp
	}
	if flagSet.Changed("http") {
		cfg.HTTP = *http
	}
	if flagSet.Changed("max-message-size") || cfg.Server.MaxMessageSize == 0 {
		cfg.Server.MaxMessageSize = *maxMessageSize
	}
	if flagSet.Changed("queue-limit") {
		cfg.Server.QueueLimit = *queueLimit
	}
	if flagSet.Changed("log-format") {
		cfg.Log.Format = logger.Format(lo.Must(flagSet.GetString("log-format")))
	}
	if flagSet.Changed("verbose") {
		cfg.Log.Verbose = lo.Must(flagSet.GetBool("verbose"))
	}

	switch cfg.Log.Format {
	case logger.FormatConsole, logger.FormatJSON, logger.FormatYAML:
	default:
		return config{}, errors.Errorf("incorrect logging format %q", cfg.Log.Format)
	}

	return cfg, nil
}
