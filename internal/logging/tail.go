package logging

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Tail returns at most maxLines from the end of the file at path. A missing
// file yields no lines and no error.
func Tail(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count, next := 0, 0
	for scanner.Scan() {
		ring[next] = scanner.Text()
		next = (next + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count < maxLines {
		copy(lines, ring[:count])
		return lines, nil
	}
	for i := 0; i < count; i++ {
		lines[i] = ring[(next+i)%maxLines]
	}
	return lines, nil
}

// LineLevel guesses the level of a line written by a text or JSON handler.
func LineLevel(line string) slog.Level {
	for _, probe := range []struct {
		level   slog.Level
		markers []string
	}{
		{slog.LevelError, []string{"level=ERROR", `"level":"ERROR"`}},
		{slog.LevelWarn, []string{"level=WARN", `"level":"WARN"`}},
		{slog.LevelDebug, []string{"level=DEBUG", `"level":"DEBUG"`}},
	} {
		for _, m := range probe.markers {
			if strings.Contains(line, m) {
				return probe.level
			}
		}
	}
	return slog.LevelInfo
}
