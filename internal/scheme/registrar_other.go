//go:build !windows

package scheme

import "log/slog"

type unsupportedRegistrar struct {
	logger *slog.Logger
}

func newPlatformRegistrar(_ string, logger *slog.Logger) Registrar {
	return unsupportedRegistrar{logger: logger}
}

func (r unsupportedRegistrar) Register() error {
	r.logger.Warn("url scheme registration is only supported on Windows", "scheme", Name)
	return ErrUnsupported
}

func (r unsupportedRegistrar) Unregister() error {
	r.logger.Warn("url scheme unregistration is only supported on Windows", "scheme", Name)
	return ErrUnsupported
}

func (unsupportedRegistrar) IsRegistered() bool { return false }
