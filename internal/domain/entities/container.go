package entities

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all entity providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	return nil // entities has no constructible providers of its own; Entry/Manifest/etc. are plain data
}
