package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lixenwraith/gifterm/config"
)

// setupLogging routes the standard logger to a file when debug is enabled
// Stdout carries the animation, so log output never goes to stdout or stderr
// Returns the open log file, or nil when logging is disabled or the file cannot be opened
func setupLogging(lc config.LogConfig) *os.File {
	if !lc.Debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(lc.Dir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(lc.Dir, lc.File)
	rotateLog(logPath, lc.MaxSize)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f
}

// rotateLog renames an oversized log to <name>_<timestamp><ext>
func rotateLog(logPath string, maxSize int64) {
	info, err := os.Stat(logPath)
	if err != nil || info.Size() <= maxSize {
		return
	}

	ext := filepath.Ext(logPath)
	base := strings.TrimSuffix(logPath, ext)
	rotated := fmt.Sprintf("%s_%s%s", base, time.Now().Format("20060102_150405"), ext)
	os.Rename(logPath, rotated)
}
