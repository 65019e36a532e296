// Package scheme registers the rvshowroom:// URL scheme with the operating
// system so that deep links launch this program.
//
// Only Windows is supported. The handler lives under HKEY_CLASSES_ROOT:
//
//	rvshowroom                    (default) = URL:Readyverse Showroom Protocol
//	                              URL Protocol = ""
//	rvshowroom\DefaultIcon        (default) = <exe>,0
//	rvshowroom\shell\open\command (default) = "<exe>" "%1"
//
// On other platforms Register and Unregister return ErrUnsupported and
// IsRegistered reports false.
package scheme

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

const (
	// Name is the registered scheme, without "://".
	Name = "rvshowroom"
	// Description is the default value of the scheme key.
	Description = "URL:Readyverse Showroom Protocol"
)

// ErrUnsupported is returned on platforms without a registration backend.
var ErrUnsupported = errors.New("url scheme registration is only supported on Windows")

// Registrar manages the OS registration of the URL scheme.
type Registrar interface {
	Register() error
	Unregister() error
	IsRegistered() bool
}

// Options configure the platform Registrar.
type Options struct {
	// Executable is the program launched for deep links. Defaults to the
	// running executable.
	Executable string
	Logger     *slog.Logger
}

// New returns the Registrar for the current platform.
func New(opts Options) (Registrar, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	exe := opts.Executable
	if exe == "" {
		path, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("resolve executable: %w", err)
		}
		exe = path
	}
	return newPlatformRegistrar(exe, logger.With("component", "scheme")), nil
}

// IconValue is the DefaultIcon value for exe.
func IconValue(exe string) string {
	return exe + ",0"
}

// CommandValue is the shell\open\command value for exe.
func CommandValue(exe string) string {
	return `"` + exe + `" "%1"`
}
