//go:build windows

package scheme

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sys/windows/registry"
)

type windowsRegistrar struct {
	exe    string
	logger *slog.Logger
}

func newPlatformRegistrar(exe string, logger *slog.Logger) Registrar {
	return &windowsRegistrar{exe: exe, logger: logger}
}

func (r *windowsRegistrar) Register() error {
	values := []struct {
		path, name, value string
	}{
		{Name, "", Description},
		{Name, "URL Protocol", ""},
		{Name + `\DefaultIcon`, "", IconValue(r.exe)},
		{Name + `\shell\open\command`, "", CommandValue(r.exe)},
	}
	for _, v := range values {
		if err := setString(v.path, v.name, v.value); err != nil {
			r.logger.Error("url scheme registration failed", "key", `HKEY_CLASSES_ROOT\`+v.path, "error", err)
			return err
		}
	}
	r.logger.Info("url scheme registered", "scheme", Name, "executable", r.exe)
	return nil
}

func (r *windowsRegistrar) Unregister() error {
	err := deleteTree(registry.CLASSES_ROOT, Name)
	if errors.Is(err, registry.ErrNotExist) {
		r.logger.Info("url scheme was not registered", "scheme", Name)
		return nil
	}
	if err != nil {
		r.logger.Error("url scheme unregistration failed", "scheme", Name, "error", err)
		return fmt.Errorf("delete registry key %s: %w", Name, err)
	}
	r.logger.Info("url scheme unregistered", "scheme", Name)
	return nil
}

func (r *windowsRegistrar) IsRegistered() bool {
	k, err := registry.OpenKey(registry.CLASSES_ROOT, Name, registry.READ)
	if err != nil {
		return false
	}
	_ = k.Close()
	return true
}

func setString(path, name, value string) error {
	k, _, err := registry.CreateKey(registry.CLASSES_ROOT, path, registry.ALL_ACCESS)
	if err != nil {
		return fmt.Errorf("create registry key %s: %w", path, err)
	}
	defer func() { _ = k.Close() }()
	if err := k.SetStringValue(name, value); err != nil {
		return fmt.Errorf("set registry value %s\\%s: %w", path, name, err)
	}
	return nil
}

// deleteTree removes path and every subkey below it.
func deleteTree(parent registry.Key, path string) error {
	k, err := registry.OpenKey(parent, path, registry.ENUMERATE_SUB_KEYS|registry.QUERY_VALUE)
	if err != nil {
		return err
	}
	names, err := k.ReadSubKeyNames(-1)
	_ = k.Close()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := deleteTree(parent, path+`\`+name); err != nil && !errors.Is(err, registry.ErrNotExist) {
			return err
		}
	}
	return registry.DeleteKey(parent, path)
}
