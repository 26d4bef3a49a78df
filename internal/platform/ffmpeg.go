package platform

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// FFmpeg executable names per platform.
const (
	ffmpegBinary        = "ffmpeg"
	ffmpegBinaryWindows = "ffmpeg.exe"
)

// FindFFmpeg locates an FFmpeg installation. Lookup order: the configured
// path (a binary or a directory containing one), a bundled "ffmpeg" directory
// next to the executable, then $PATH. Returns ok=false when none is found;
// callers must then omit codec post-processing rather than fail.
func FindFFmpeg(configured string) (string, bool) {
	if configured != "" {
		if path, ok := ffmpegAt(configured); ok {
			return path, true
		}
	}

	if exe, err := os.Executable(); err == nil {
		bundled := filepath.Join(filepath.Dir(exe), "ffmpeg")
		if path, ok := ffmpegAt(bundled); ok {
			return path, true
		}
	}

	if path, err := exec.LookPath(ffmpegBinary); err == nil {
		return path, true
	}
	return "", false
}

// ffmpegAt resolves a candidate path that may be the binary itself or a
// directory holding it.
func ffmpegAt(candidate string) (string, bool) {
	info, err := os.Stat(candidate)
	if err != nil {
		return "", false
	}

	if !info.IsDir() {
		return candidate, true
	}

	name := ffmpegBinary
	if runtime.GOOS == "windows" {
		name = ffmpegBinaryWindows
	}
	binary := filepath.Join(candidate, name)
	if _, err := os.Stat(binary); err == nil {
		return binary, true
	}
	return "", false
}
