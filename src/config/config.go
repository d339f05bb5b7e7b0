package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ConfigPathEnvVar = "SCREEN_REGION_READER"

	PlaybackMalgo  = "malgo"
	PlaybackEspeak = "espeak"

	DefaultOCRLanguage    = "eng"
	DefaultPollIntervalMs = 1000
	DefaultPreferredVoice = "Microsoft Zira Desktop"
	DefaultHotkey         = "Ctrl+Alt+Q"

	minRate = -10
	maxRate = 10
)

type LoadOptions struct {
	// EnvPathOverride skips the executable-dir / SCREEN_REGION_READER lookup.
	EnvPathOverride string
}

type Config struct {
	EnableFileLogging bool
	OCRLanguage       string
	PollIntervalMs    int
	SpeechRate        int
	PreferredVoice    string
	EspeakBinary      string
	SpeechPlayback    string
	Hotkey            string
	CopyToClipboard   bool
	EchoToStdout      bool
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) explicit override path
	// 2) .env in the application (executable) directory
	// 3) file named by SCREEN_REGION_READER
	envPath := strings.TrimSpace(opts.EnvPathOverride)
	if envPath == "" {
		envPath = resolveEnvPath()
	}
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	pollMs := DefaultPollIntervalMs
	if v := os.Getenv("POLL_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pollMs = n
		}
	}

	rate := 0
	if v := os.Getenv("SPEECH_RATE"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			rate = clampRate(n)
		}
	}

	hotkey := DefaultHotkey
	if v, ok := os.LookupEnv("HOTKEY"); ok {
		hotkey = strings.TrimSpace(v)
	}

	cfg := &Config{
		EnableFileLogging: parseBool(os.Getenv("ENABLE_FILE_LOGGING"), false),
		OCRLanguage:       getEnvWithDefault("OCR_LANGUAGE", DefaultOCRLanguage),
		PollIntervalMs:    pollMs,
		SpeechRate:        rate,
		PreferredVoice:    getEnvWithDefault("PREFERRED_VOICE", DefaultPreferredVoice),
		EspeakBinary:      strings.TrimSpace(os.Getenv("ESPEAK_BINARY")),
		SpeechPlayback:    resolvePlayback(os.Getenv("SPEECH_PLAYBACK")),
		Hotkey:            hotkey,
		CopyToClipboard:   parseBool(os.Getenv("COPY_TO_CLIPBOARD"), false),
		EchoToStdout:      parseBool(os.Getenv("ECHO_TO_STDOUT"), true),
	}

	return cfg, nil
}

func resolveEnvPath() string {
	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(ConfigPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(value string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func resolvePlayback(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case PlaybackEspeak, "direct":
		return PlaybackEspeak
	default:
		return PlaybackMalgo
	}
}

func clampRate(r int) int {
	if r < minRate {
		return minRate
	}
	if r > maxRate {
		return maxRate
	}
	return r
}
