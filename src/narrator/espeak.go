package narrator

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

const (
	defaultWPM = 175
	minWPM     = 80
	maxWPM     = 450
)

var espeakBinaries = []string{"espeak-ng", "espeak"}

// Espeak drives the espeak-ng (or classic espeak) command line synthesizer.
// With a Player the utterance is rendered to WAV and played in-process;
// without one espeak plays it on its own audio output.
type Espeak struct {
	binary string
	player Player

	mu    sync.Mutex
	rate  int
	voice string
}

// NewEspeak resolves the espeak binary (empty binary means autodetect).
func NewEspeak(binary string, player Player) (*Espeak, error) {
	path, err := resolveBinary(binary)
	if err != nil {
		return nil, err
	}
	return &Espeak{binary: path, player: player}, nil
}

func resolveBinary(binary string) (string, error) {
	candidates := espeakBinaries
	if binary != "" {
		candidates = []string{binary}
	}
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("speech binary not found (tried %s)", strings.Join(candidates, ", "))
}

// Voices lists the installed espeak voices.
func (e *Espeak) Voices() ([]Voice, error) {
	out, err := exec.Command(e.binary, "--voices").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}
	return parseVoices(out), nil
}

func (e *Espeak) Rate() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rate
}

func (e *Espeak) SetRate(rate int) error {
	if rate < MinRate || rate > MaxRate {
		return fmt.Errorf("rate %d outside [%d, %d]", rate, MinRate, MaxRate)
	}
	e.mu.Lock()
	e.rate = rate
	e.mu.Unlock()
	return nil
}

func (e *Espeak) SetVoice(v Voice) error {
	if v.ID == "" {
		return fmt.Errorf("voice %q has no id", v.Name)
	}
	e.mu.Lock()
	e.voice = v.ID
	e.mu.Unlock()
	return nil
}

// Speak synthesizes text with the rate and voice in effect when the call starts.
func (e *Espeak) Speak(text string) error {
	e.mu.Lock()
	rate, voice := e.rate, e.voice
	e.mu.Unlock()

	cmd := exec.Command(e.binary, speakArgs(rate, voice, e.player != nil)...)
	cmd.Stdin = strings.NewReader(text)

	if e.player == nil {
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("espeak failed: %w: %s", err, strings.TrimSpace(string(out)))
		}
		return nil
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	wav, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("espeak failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	pcm, err := ParseWAV(wav)
	if err != nil {
		return err
	}
	return e.player.Play(pcm)
}

// Close releases the player, if any.
func (e *Espeak) Close() error {
	if e.player == nil {
		return nil
	}
	return e.player.Close()
}

func speakArgs(rate int, voice string, toStdout bool) []string {
	args := []string{"-s", strconv.Itoa(rateToWPM(rate))}
	if voice != "" {
		args = append(args, "-v", voice)
	}
	args = append(args, "--stdin")
	if toStdout {
		args = append(args, "--stdout")
	}
	return args
}

// rateToWPM maps the [-10, 10] rate scale onto words per minute:
// each 10 steps triples or thirds the default speed.
func rateToWPM(rate int) int {
	wpm := int(math.Round(defaultWPM * math.Pow(3, float64(rate)/10)))
	if wpm < minWPM {
		return minWPM
	}
	if wpm > maxWPM {
		return maxWPM
	}
	return wpm
}

// parseVoices reads the table printed by `espeak-ng --voices`:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  en-us           --/M      English_(America)  gmw/en-US            (en 3)
func parseVoices(out []byte) []Voice {
	var voices []Voice
	seen := make(map[string]bool)
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 5 || fields[0] == "Pty" {
			continue
		}
		name := strings.ReplaceAll(fields[3], "_", " ")
		if seen[name] {
			continue
		}
		seen[name] = true
		voices = append(voices, Voice{Name: name, ID: fields[1], Language: fields[1]})
	}
	return voices
}
