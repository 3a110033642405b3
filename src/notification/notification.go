package notification

import (
	"log"

	"fyne.io/fyne/v2"
)

const maxContent = 200

// Send posts a desktop notification through the app, truncating long content.
// Drivers without notification support only log it.
func Send(app fyne.App, title, content string) {
	content = truncate(content)
	log.Printf("Notification: %s: %s", title, content)
	if app == nil {
		return
	}
	app.SendNotification(fyne.NewNotification(title, content))
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxContent {
		return s
	}
	return string(r[:maxContent]) + "..."
}
