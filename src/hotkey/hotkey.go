package hotkey

import (
	"fmt"
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// Listen registers a global key combination such as "Ctrl+Alt+Q" and invokes
// callback on every press. The returned stop function ends the hook; it is
// safe to call more than once.
func Listen(hotkeyConfig string, callback func()) (stop func(), err error) {
	keys := parseHotkey(hotkeyConfig)
	log.Printf("Parsed hotkey configuration: %v", keys)
	if err := validateKeys(keys); err != nil {
		return nil, fmt.Errorf("hotkey %q: %w", hotkeyConfig, err)
	}

	gohook.Register(gohook.KeyDown, keys, func(e gohook.Event) {
		log.Printf("Hotkey activated: %s", hotkeyConfig)
		if callback != nil {
			callback()
		}
	})

	evChan := gohook.Start()
	if evChan == nil {
		return nil, fmt.Errorf("gohook.Start() returned nil channel")
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()
		<-gohook.Process(evChan)
		log.Printf("Hotkey event processing ended")
	}()

	log.Printf("Hotkey listener configured for: %s", hotkeyConfig)

	var once sync.Once
	return func() {
		once.Do(gohook.End)
	}, nil
}

// parseHotkey converts a hotkey string like "Ctrl+Alt+q" to normalized key names
func parseHotkey(hotkeyConfig string) []string {
	parts := strings.Split(strings.ToLower(hotkeyConfig), "+")
	var keys []string

	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "ctrl", "control":
			keys = append(keys, "ctrl")
		case "alt", "option":
			keys = append(keys, "alt")
		case "shift":
			keys = append(keys, "shift")
		case "win", "cmd", "super":
			keys = append(keys, "cmd")
		case "escape":
			keys = append(keys, "esc")
		case "return":
			keys = append(keys, "enter")
		case "del":
			keys = append(keys, "delete")
		case "ins":
			keys = append(keys, "insert")
		case "pgup":
			keys = append(keys, "pageup")
		case "pgdn":
			keys = append(keys, "pagedown")
		default:
			keys = append(keys, part)
		}
	}

	return keys
}

var namedKeys = map[string]bool{
	"ctrl": true, "alt": true, "shift": true, "cmd": true,
	"space": true, "enter": true, "esc": true, "tab": true, "backspace": true,
	"delete": true, "insert": true, "home": true, "end": true,
	"pageup": true, "pagedown": true,
	"left": true, "up": true, "right": true, "down": true,
}

// isSupportedKey reports whether name is a key the hook can match.
func isSupportedKey(name string) bool {
	if namedKeys[name] {
		return true
	}
	if len(name) == 1 {
		c := name[0]
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}
	var n int
	if _, err := fmt.Sscanf(name, "f%d", &n); err == nil && fmt.Sprintf("f%d", n) == name {
		return n >= 1 && n <= 24
	}
	return false
}

func validateKeys(keys []string) error {
	if len(keys) == 0 {
		return fmt.Errorf("no keys")
	}
	hasPlain := false
	for _, k := range keys {
		if !isSupportedKey(k) {
			return fmt.Errorf("unknown key name %q", k)
		}
		switch k {
		case "ctrl", "alt", "shift", "cmd":
		default:
			hasPlain = true
		}
	}
	if !hasPlain {
		return fmt.Errorf("combination needs a non-modifier key")
	}
	return nil
}
