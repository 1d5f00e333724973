package main

import (
	"os"

	"github.com/kind-lang/kindhvm/internal/checker"
	"github.com/kind-lang/kindhvm/internal/config"
	"github.com/kind-lang/kindhvm/internal/hvm"
	"github.com/kind-lang/kindhvm/internal/hvm/proc"
	"github.com/kind-lang/kindhvm/internal/hvm/reduce"
)

func setupConfig() (config.Config, error) {
	dir, err := config.SetupConfigDir()
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(dir)
}

func newEngine(cfg config.Config) hvm.Engine {
	switch cfg.Engine {
	case config.ENGINE_HVM:
		return proc.New(proc.Options{Path: cfg.HVMPath, Timeout: cfg.Timeout, Trace: os.Stdout})
	default:
		return reduce.New(reduce.Options{Trace: os.Stdout, MaxSteps: cfg.MaxSteps})
	}
}

func loadBootstrap(cfg config.Config) (checker.Bootstrap, error) {
	if cfg.Bootstrap == "" {
		return checker.DefaultBootstrap(), nil
	}
	return checker.LoadBootstrap(cfg.Bootstrap)
}
