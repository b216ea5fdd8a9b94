package controllers

import (
	"go.uber.org/dig"

	"github.com/kdevan/forkpin/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	constructors := []interface{}{
		NewRecordController,
		NewReplayController,
		NewSaveController,
		NewPushController,
		NewStatusController,
		NewCleanController,
		NewResetController,
		NewStatusAllController,
		NewCleanAllController,
		NewReplayAllController,
	}
	for _, ctor := range constructors {
		if err := container.Provide(ctor); err != nil {
			return err
		}
	}

	return container.Provide(NewControllers)
}

// NewControllers aggregates all controllers into a slice for the AppInternal,
// in the order they should appear on the root command.
func NewControllers(
	record *RecordController,
	replay *ReplayController,
	save *SaveController,
	push *PushController,
	status *StatusController,
	clean *CleanController,
	reset *ResetController,
	statusAll *StatusAllController,
	cleanAll *CleanAllController,
	replayAll *ReplayAllController,
) *[]entities.Controller {
	return &[]entities.Controller{
		record, replay, save, push, status, clean, reset, statusAll, cleanAll, replayAll,
	}
}
