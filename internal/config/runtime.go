package config

import (
	"os"
	"path/filepath"
)

// RuntimeContext captures the environment-dependent choices that differ
// between a local run and a Lambda invocation. It is decided once at
// process start and passed down instead of re-checking the environment
// ad hoc.
type RuntimeContext struct {
	// Lambda is true when running inside AWS Lambda, where prompting for
	// input is impossible and only /tmp is writable.
	Lambda bool
	// StaticDir is the directory the website renderer writes into.
	StaticDir string
}

// DetectRuntime builds the RuntimeContext for the current process.
// staticDirOverride, when non-empty, wins over the environment default.
func DetectRuntime(staticDirOverride string) RuntimeContext {
	_, lambda := os.LookupEnv("AWS_LAMBDA_FUNCTION_NAME")

	dir := staticDirOverride
	if dir == "" {
		if lambda {
			dir = filepath.Join(os.TempDir(), "static")
		} else {
			dir = "static"
		}
	}

	return RuntimeContext{Lambda: lambda, StaticDir: dir}
}
