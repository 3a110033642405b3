package tray

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

type Config struct {
	Title     string
	OnAnalyze func()
	OnShow    func()
}

// Install adds the overlay's menu to the system tray. fyne appends its own
// Quit item. It reports false when the driver has no tray support.
func Install(app fyne.App, cfg Config) bool {
	desk, ok := app.(desktop.App)
	if !ok {
		log.Printf("System tray not supported by this driver")
		return false
	}

	desk.SetSystemTrayMenu(fyne.NewMenu(cfg.Title, menuItems(cfg)...))
	desk.SetSystemTrayIcon(Icon)
	log.Printf("System tray installed")
	return true
}

func menuItems(cfg Config) []*fyne.MenuItem {
	var items []*fyne.MenuItem
	if cfg.OnAnalyze != nil {
		items = append(items, fyne.NewMenuItem("Analyze Screen", cfg.OnAnalyze))
	}
	if cfg.OnShow != nil {
		items = append(items, fyne.NewMenuItem("Show Overlay", cfg.OnShow))
	}
	return items
}
