package entities

import "github.com/spf13/cobra"

// RecordOptions carries the CLI overrides for a record invocation.
type RecordOptions struct {
	Name string
	Refs []string // overrides the configured entry's refs when non-empty
}

// ReplayOptions carries the CLI overrides for a replay invocation.
type ReplayOptions struct {
	Name string
}

// SaveOptions carries the CLI arguments for a save invocation.
type SaveOptions struct {
	Name string
	Desc string
}

// PushOptions carries the CLI arguments for a push invocation.
type PushOptions struct {
	Name   string
	Target string
}

// ControllerBind is the Cobra command metadata a controller exposes.
type ControllerBind struct {
	Use   string
	Short string
	Long  string
}

// Controller is implemented by every CLI-facing controller so the root
// command can enumerate, bind, and execute them uniformly.
type Controller interface {
	GetBind() ControllerBind
	Execute(cmd *cobra.Command, args []string)
}
