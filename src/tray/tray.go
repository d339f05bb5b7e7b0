package tray

import (
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const appTitle = "Screen Region Reader"

type Config struct {
	Hotkey string
}

// Tray owns the system tray menu. The tray also keeps the fyne app alive
// while no window is open.
type Tray struct {
	mu     sync.Mutex
	onStop func()
	menu   *fyne.Menu
	stop   *fyne.MenuItem
}

// New installs the tray icon and menu. It returns nil when the driver has no
// system tray support.
func New(a fyne.App, cfg Config) *Tray {
	desk, ok := a.(desktop.App)
	if !ok {
		log.Printf("System tray not supported by this driver")
		return nil
	}

	t := &Tray{}
	t.stop = newStopItem(t)
	t.menu = newMenu(t, cfg)

	desk.SetSystemTrayMenu(t.menu)
	desk.SetSystemTrayIcon(Icon)
	log.Printf("System tray initialized")
	return t
}

// SetOnStop binds the "Stop reading" item. A nil f disables the item.
// Must run on the fyne main goroutine.
func (t *Tray) SetOnStop(f func()) {
	t.mu.Lock()
	t.onStop = f
	t.mu.Unlock()

	t.stop.Disabled = f == nil
	t.menu.Refresh()
}

func (t *Tray) handleStop() {
	t.mu.Lock()
	f := t.onStop
	t.mu.Unlock()
	if f != nil {
		log.Printf("Tray: stop reading")
		f()
	}
}

func newStopItem(t *Tray) *fyne.MenuItem {
	item := fyne.NewMenuItem("Stop reading", t.handleStop)
	item.Disabled = true
	return item
}

func newMenu(t *Tray, cfg Config) *fyne.Menu {
	items := []*fyne.MenuItem{t.stop}
	if cfg.Hotkey != "" {
		about := fyne.NewMenuItem("Hotkey: "+cfg.Hotkey, nil)
		about.Disabled = true
		items = append(items, fyne.NewMenuItemSeparator(), about)
	}
	return fyne.NewMenu(appTitle, items...)
}
