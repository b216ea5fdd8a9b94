package internal

import "github.com/kdevan/forkpin/internal/domain/entities"

// AppInternal aggregates the wired controllers for the CLI entrypoint to
// enumerate when building the Cobra command tree.
type AppInternal struct {
	controllers []entities.Controller
}

// NewAppInternal constructs an AppInternal from the DI-assembled controller
// slice.
func NewAppInternal(controllers *[]entities.Controller) *AppInternal {
	return &AppInternal{controllers: *controllers}
}

// GetControllers returns every wired controller in registration order.
func (a *AppInternal) GetControllers() []entities.Controller {
	return a.controllers
}
