package main

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/dig"

	"github.com/kdevan/forkpin/config"
	"github.com/kdevan/forkpin/internal"
	"github.com/kdevan/forkpin/internal/infrastructure/repositories/pinstore"
)

const configFlagPrefix = "--config="

// resolveConfigFlag scans argv for --config/-c ahead of Cobra parsing,
// since the config document must be loaded before the DI container that
// every command depends on can be built.
func resolveConfigFlag(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--config" || arg == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, configFlagPrefix):
			return strings.TrimPrefix(arg, configFlagPrefix)
		}
	}
	return ""
}

func loadConfigPath() string {
	if path := resolveConfigFlag(os.Args[1:]); path != "" {
		return path
	}
	path, err := config.FindConfigFile()
	if err != nil {
		panic(err)
	}
	return path
}

func injectAppContext() *internal.AppInternal {
	configPath := loadConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	root := filepath.Dir(configPath)
	pinsRoot := pinstore.PinsRoot(filepath.Join(root, "pins"))
	clonesRoot := pinstore.ClonesRoot(filepath.Join(root, "clones"))

	container := dig.New()
	if provideErr := container.Provide(func() *config.Config { return cfg }); provideErr != nil {
		panic(provideErr)
	}
	if provideErr := container.Provide(func() pinstore.PinsRoot { return pinsRoot }); provideErr != nil {
		panic(provideErr)
	}
	if provideErr := container.Provide(func() pinstore.ClonesRoot { return clonesRoot }); provideErr != nil {
		panic(provideErr)
	}
	if registerErr := internal.RegisterProviders(container); registerErr != nil {
		panic(registerErr)
	}

	var appInternal *internal.AppInternal
	if invokeErr := container.Invoke(func(ai *internal.AppInternal) {
		appInternal = ai
	}); invokeErr != nil {
		panic(invokeErr)
	}

	return appInternal
}
