package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"example.com/sbdgate/internal/directip"
	"example.com/sbdgate/internal/storage"
)

type logConfig struct {
	Directory  string `yaml:"directory"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	MaxBackups int    `yaml:"maxBackups"`
	Compress   bool   `yaml:"compress"`
}

type storageConfig struct {
	Backend string `yaml:"backend"`
	Root    string `yaml:"root"`
	DSN     string `yaml:"dsn"`
}

type config struct {
	Listen             string        `yaml:"listen"`
	ReadTimeoutSec     int           `yaml:"readTimeoutSec"`
	MetricsIntervalSec int           `yaml:"metricsIntervalSec"`
	Storage            storageConfig `yaml:"storage"`
	Logs               logConfig     `yaml:"logs"`
}

func loadConfig(path string) (config, error) {
	var cfg config
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Listen == "" {
		cfg.Listen = ":10800"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "filesystem"
	}
	if cfg.Storage.Root == "" {
		cfg.Storage.Root = filepath.Join(".", "data")
	}
	if cfg.MetricsIntervalSec <= 0 {
		cfg.MetricsIntervalSec = 60
	}
	if cfg.Logs.Directory == "" {
		cfg.Logs.Directory = filepath.Join(cfg.Storage.Root, "logs")
	}
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}
	if cfg.Logs.MaxSizeMB <= 0 {
		cfg.Logs.MaxSizeMB = 25
	}
	if cfg.Logs.MaxAgeDays <= 0 {
		cfg.Logs.MaxAgeDays = 7
	}
	if cfg.Logs.MaxBackups <= 0 {
		cfg.Logs.MaxBackups = 5
	}
	return cfg, nil
}

func setupLogging(cfg config) (*logrus.Logger, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Logs.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)
	if err := os.MkdirAll(cfg.Logs.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Logs.Directory, "sbdd.log"),
		MaxSize:    cfg.Logs.MaxSizeMB,
		MaxAge:     cfg.Logs.MaxAgeDays,
		MaxBackups: cfg.Logs.MaxBackups,
		Compress:   cfg.Logs.Compress,
	}
	logger.AddHook(lfshook.NewHook(lfshook.WriterMap{
		logrus.DebugLevel: rotator,
		logrus.InfoLevel:  rotator,
		logrus.WarnLevel:  rotator,
		logrus.ErrorLevel: rotator,
		logrus.FatalLevel: rotator,
	}, &logrus.TextFormatter{DisableColors: true}))
	return logger, nil
}

func openStorage(cfg storageConfig) (storage.Storage, func() error, error) {
	switch cfg.Backend {
	case "filesystem":
		if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create storage root: %w", err)
		}
		fs, err := storage.OpenFilesystem(cfg.Root)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() error { return nil }, nil
	case "memory":
		return storage.NewMemory(), func() error { return nil }, nil
	case "mysql":
		db, err := storage.OpenMySQL(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to configuration file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	backend := flag.String("backend", "", "storage backend: filesystem, memory or mysql (overrides config)")
	root := flag.String("root", "", "filesystem storage root (overrides config)")
	readTimeout := flag.Duration("read-timeout", 0, "per-connection read timeout (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.Listen = *addr
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
	}
	if *root != "" {
		cfg.Storage.Root = *root
	}
	connTimeout := time.Duration(cfg.ReadTimeoutSec) * time.Second
	if *readTimeout > 0 {
		connTimeout = *readTimeout
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		logrus.Fatalf("setup logging: %v", err)
	}

	store, closeStore, err := openStorage(cfg.Storage)
	if err != nil {
		logger.Fatalf("open storage: %v", err)
	}
	defer closeStore()

	metrics := directip.NewMetrics()
	server, err := directip.NewServer(directip.Options{
		Addr:        cfg.Listen,
		Storage:     store,
		Logger:      logger,
		ReadTimeout: connTimeout,
		Metrics:     metrics,
	})
	if err != nil {
		logger.Fatalf("server init: %v", err)
	}
	if err := server.Bind(); err != nil {
		logger.Fatalf("bind: %v", err)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serveDone := make(chan error, 1)
	go func() { serveDone <- server.ServeForever() }()

	ticker := time.NewTicker(time.Duration(cfg.MetricsIntervalSec) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			snapshot := metrics.Snapshot()
			logger.WithFields(logrus.Fields{
				"accepted": snapshot.Accepted,
				"stored":   snapshot.Stored,
				"failed":   snapshot.Failed,
			}).Info("ingestion counters")
		case <-shutdown:
			logger.Info("shutting down")
			if err := server.Close(); err != nil {
				logger.WithError(err).Error("close listener")
			}
			if err := <-serveDone; err != nil {
				logger.WithError(err).Error("serve")
			}
			logger.Info("sbdd stopped")
			return
		case err := <-serveDone:
			if err != nil {
				logger.Fatalf("serve: %v", err)
			}
			return
		}
	}
}
