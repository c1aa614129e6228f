package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Tail returns at most n lines from the end of the file at path whose level
// is threshold or more severe.
func Tail(path string, n int, threshold logrus.Level) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, n)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count, idx := 0, 0
	for scanner.Scan() {
		line := scanner.Text()
		if lvl, ok := LevelOf(line); ok && lvl > threshold {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % n
		if count < n {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == n {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%n]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// LevelOf extracts the level= field of a logrus text line.
func LevelOf(line string) (logrus.Level, bool) {
	i := strings.Index(line, "level=")
	if i < 0 || (i > 0 && line[i-1] != ' ') {
		return 0, false
	}
	rest := line[i+len("level="):]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	lvl, err := logrus.ParseLevel(strings.Trim(rest, `"`))
	if err != nil {
		return 0, false
	}
	return lvl, true
}

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow)
	debugColor = color.New(color.FgCyan)
	faintColor = color.New(color.Faint)
)

// Colorize tints a line by its level for terminal output.
func Colorize(line string) string {
	lvl, ok := LevelOf(line)
	if !ok {
		return faintColor.Sprint(line)
	}
	switch {
	case lvl <= logrus.ErrorLevel:
		return errorColor.Sprint(line)
	case lvl == logrus.WarnLevel:
		return warnColor.Sprint(line)
	case lvl >= logrus.DebugLevel:
		return debugColor.Sprint(line)
	}
	return line
}
