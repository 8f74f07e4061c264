package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/panagiotisptr/shimstack/generate"
)

func main() {
	// flags
	interfacePath := flag.String("interface", "", "interface full path - {package}.{interface}")
	packageName := flag.String("package", "", "package name")
	name := flag.String("name", "", "name of the generated proxy struct")
	output := flag.String("output", "", "output file name")
	configPath := flag.String("config", "", "YAML file listing proxies to generate")
	verbose := flag.Bool("v", false, "verbose logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var proxies []Proxy
	if *configPath != "" {
		cfg, err := LoadConfig(*configPath)
		if err != nil {
			logger.Error("encountered error while loading config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		proxies = cfg.Proxies
	} else {
		proxies = []Proxy{{
			Interface: *interfacePath,
			Package:   *packageName,
			Name:      *name,
			Output:    *output,
		}}
	}

	generator := generate.NewGenerator()

	failed := false
	for _, p := range proxies {
		if err := p.Validate(); err != nil {
			logger.Error("invalid proxy definition", "interface", p.Interface, "error", err)
			failed = true
			continue
		}

		logger.Debug("generating proxy", "interface", p.Interface, "name", p.Name, "output", p.Output)
		err := generator.GenerateProxy(
			p.Interface,
			p.Package,
			p.Name,
			p.Output,
		)
		if err != nil {
			logger.Error("encountered error while generating proxy", "interface", p.Interface, "error", err)
			failed = true
			continue
		}
		logger.Info("proxy generated successfully", "name", p.Name, "output", p.Output)
	}

	if failed {
		os.Exit(1)
	}
}
