package media

// Package media shells out to FFmpeg/ffprobe to prepare downloaded audio for
// the recognition engines: 16 kHz mono WAV conversion and duration probing.
// Without FFmpeg everything degrades to pass-through.
