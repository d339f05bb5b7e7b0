//go:build windows

package main

import (
	"log"

	"golang.org/x/sys/windows"
)

const processPerMonitorDPIAware = 2

var (
	shcore = windows.NewLazySystemDLL("Shcore.dll")
	user32 = windows.NewLazySystemDLL("user32.dll")
)

// enableDPIAwareness attempts to set per-monitor DPI awareness on Windows so
// captured pixels and window coordinates agree.
func enableDPIAwareness() {
	setProcessDpiAwareness := shcore.NewProc("SetProcessDpiAwareness")
	if err := setProcessDpiAwareness.Find(); err == nil {
		ret, _, _ := setProcessDpiAwareness.Call(uintptr(processPerMonitorDPIAware))
		if ret == 0 {
			log.Printf("DPI: Successfully set per-monitor DPI awareness")
		} else {
			log.Printf("DPI: Failed to set per-monitor DPI awareness, error code: %d", ret)
		}
		return
	}

	log.Printf("DPI: Shcore.SetProcessDpiAwareness not available, trying fallback")
	setProcessDPIAware := user32.NewProc("SetProcessDPIAware")
	if err := setProcessDPIAware.Find(); err != nil {
		log.Printf("DPI: SetProcessDPIAware not available, no DPI awareness set")
		return
	}
	if ret, _, _ := setProcessDPIAware.Call(); ret != 0 {
		log.Printf("DPI: Successfully set system DPI awareness (fallback)")
	} else {
		log.Printf("DPI: Failed to set system DPI awareness (fallback)")
	}
}

func logMonitorConfiguration() {
	getSystemMetrics := user32.NewProc("GetSystemMetrics")
	const (
		smCXScreen  = 0
		smCYScreen  = 1
		smCMonitors = 80
	)
	n, _, _ := getSystemMetrics.Call(uintptr(smCMonitors))
	w, _, _ := getSystemMetrics.Call(uintptr(smCXScreen))
	h, _, _ := getSystemMetrics.Call(uintptr(smCYScreen))
	log.Printf("MONITOR: %d monitors, primary %dx%d", n, w, h)
}
