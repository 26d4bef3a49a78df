package transcribe

// Package transcribe runs speech recognition over downloaded audio. Three
// engines are supported behind one interface: the reference Whisper CLI, the
// CTranslate2-backed whisper-ctranslate2, and the Japanese-specialized
// kotoba-whisper model. Transcriber serializes runs and keeps model loading
// idempotent.
