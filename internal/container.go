package internal

import (
	"go.uber.org/dig"

	"github.com/kdevan/forkpin/internal/domain/commands"
	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/infrastructure/controllers"
	"github.com/kdevan/forkpin/internal/infrastructure/repositories"
)

// RegisterProviders registers all internal providers with the DIG
// container. The caller must already have provided *config.Config and the
// pinstore.PinsRoot/ClonesRoot values before invoking this.
func RegisterProviders(container *dig.Container) error {
	// Register all layers bottom-up: infrastructure repos -> domain entities -> domain commands -> controllers.
	if err := repositories.RegisterProviders(container); err != nil {
		return err
	}
	if err := entities.RegisterProviders(container); err != nil {
		return err
	}
	if err := commands.RegisterProviders(container); err != nil {
		return err
	}
	if err := controllers.RegisterProviders(container); err != nil {
		return err
	}

	return container.Provide(NewAppInternal)
}
