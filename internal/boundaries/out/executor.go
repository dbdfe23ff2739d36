package out

import "context"

// CommandExecutor is the narrow port for spawning external commands. Keeping
// it behind an interface lets every usecase run with zero process spawning
// in tests.
type CommandExecutor interface {
	// Run executes the command and returns its combined output. The context
	// bounds the execution time.
	Run(ctx context.Context, name string, args ...string) (output string, err error)

	// LookPath reports the absolute path of an executable, or an error when
	// it is not installed.
	LookPath(name string) (string, error)
}
