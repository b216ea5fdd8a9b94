package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	constructors := []interface{}{
		NewStatusCommand,
		NewRecordCommand,
		NewReplayCommand,
		NewSaveCommand,
		NewPushCommand,
		NewCleanCommand,
		NewResetCommand,
		NewStatusAllCommand,
		NewCleanAllCommand,
		NewReplayAllCommand,
	}
	for _, ctor := range constructors {
		if err := container.Provide(ctor); err != nil {
			return err
		}
	}

	bindings := []interface{}{
		func(impl *StatusCommand) Status { return impl },
		func(impl *RecordCommand) Record { return impl },
		func(impl *ReplayCommand) Replay { return impl },
		func(impl *SaveCommand) Save { return impl },
		func(impl *PushCommand) Push { return impl },
		func(impl *CleanCommand) Clean { return impl },
		func(impl *ResetCommand) Reset { return impl },
		func(impl *StatusAllCommand) StatusAll { return impl },
		func(impl *CleanAllCommand) CleanAll { return impl },
		func(impl *ReplayAllCommand) ReplayAll { return impl },
	}
	for _, bind := range bindings {
		if err := container.Provide(bind); err != nil {
			return err
		}
	}

	return nil
}
