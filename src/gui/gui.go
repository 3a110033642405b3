package gui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"ghost-overlay/src/clipboard"
	"ghost-overlay/src/messages"
	"ghost-overlay/src/overlay"
	"ghost-overlay/src/window"
)

const (
	Title        = "Gemini Vision Layer"
	analyzeLabel = "📸 Analyze Screen"
	copyLabel    = "Copy"
	closeLabel   = "×"
)

// Overlay is the frameless panel. It implements overlay.View,
// overlay.Mover and screenshot.Visibility.
type Overlay struct {
	win   fyne.Window
	style Style

	status  *widget.RichText
	text    string
	trigger *widget.Button
	copyBtn *widget.Button
	closeB  *widget.Button
	surface *dragSurface

	handle     window.Handle
	ctrl       *overlay.Controller
	moveWarned bool
}

// New builds the overlay window. Controls stay inert until Bind is called.
func New(a fyne.App, style Style) *Overlay {
	a.Settings().SetTheme(newTheme(style))

	o := &Overlay{style: style}
	o.win = newFramelessWindow(a)
	o.win.SetTitle(Title)
	o.win.SetPadded(false)

	o.status = widget.NewRichText()
	o.status.Wrapping = fyne.TextWrapWord
	o.SetStatus(messages.StatusReady)

	o.trigger = widget.NewButton(analyzeLabel, o.onAnalyze)
	o.trigger.Importance = widget.HighImportance
	o.copyBtn = widget.NewButton(copyLabel, o.onCopy)
	o.closeB = widget.NewButton(closeLabel, o.onClose)
	o.closeB.Importance = widget.DangerImportance

	title := canvas.NewText(Title, style.Text)
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = style.TextSize + 1

	header := container.NewBorder(nil, nil, nil, o.closeB, title)
	o.surface = newDragSurface(header)

	body := container.NewBorder(
		container.NewVBox(o.surface, o.trigger),
		container.NewHBox(layout.NewSpacer(), o.copyBtn),
		nil, nil,
		container.NewVScroll(o.status),
	)

	bg := canvas.NewRectangle(style.Background)
	bg.StrokeColor = style.Border
	bg.StrokeWidth = 1
	bg.CornerRadius = 10

	o.win.SetContent(container.NewStack(bg, container.NewPadded(body)))
	o.win.Resize(fyne.NewSize(style.Width, style.Height))
	o.win.SetFixedSize(true)
	return o
}

// newFramelessWindow prefers a splash window, which desktop drivers create
// without decorations.
func newFramelessWindow(a fyne.App) fyne.Window {
	if drv, ok := a.Driver().(desktop.Driver); ok {
		return drv.CreateSplashWindow()
	}
	return a.NewWindow(Title)
}

// Bind connects the controls to c. Must run on the UI goroutine.
func (o *Overlay) Bind(c *overlay.Controller) {
	o.ctrl = c
	o.surface.drag = c.Drag()
	o.surface.origin = func() overlay.Point { return c.State().Position }
	o.surface.scale = func() float32 { return o.win.Canvas().Scale() }
	o.win.SetCloseIntercept(c.OnCloseRequested)
}

// Window exposes the underlying fyne window.
func (o *Overlay) Window() fyne.Window { return o.win }

// Activate places the window, then applies the native topmost, opacity and
// stealth requests. Call once the window exists on screen.
func (o *Overlay) Activate(pos overlay.Point, stealth bool) {
	o.handle = nativeHandle(o.win)
	_ = o.MoveTo(pos.X, pos.Y)

	err := window.Apply(o.handle, window.Options{
		Topmost: true,
		Opacity: o.style.Opacity,
		Stealth: stealth,
	})
	switch {
	case err != nil:
		log.Printf("Native window options not fully applied: %v", err)
	case stealth:
		log.Printf("Stealth Mode Active")
	}
}

// SetStatus replaces the output text. Must run on the UI goroutine.
func (o *Overlay) SetStatus(text string) {
	o.text = text
	o.status.Segments = []widget.RichTextSegment{&widget.TextSegment{
		Text:  text,
		Style: widget.RichTextStyle{ColorName: colorNameOutput, SizeName: theme.SizeNameText},
	}}
	o.status.Refresh()
}

// Status returns the text currently shown.
func (o *Overlay) Status() string { return o.text }

// SetTriggerEnabled must run on the UI goroutine.
func (o *Overlay) SetTriggerEnabled(enabled bool) {
	if enabled {
		o.trigger.Enable()
	} else {
		o.trigger.Disable()
	}
}

// Hide is called from the capture worker and blocks until the window is gone.
func (o *Overlay) Hide() {
	fyne.DoAndWait(o.win.Hide)
}

// Show is called from the capture worker.
func (o *Overlay) Show() {
	fyne.DoAndWait(o.win.Show)
}

// MoveTo repositions the native window. Must run on the UI goroutine.
// Without a native handle there is nothing to move and it reports success.
// Only the first failure is logged.
func (o *Overlay) MoveTo(x, y int) error {
	if o.handle == 0 {
		return nil
	}
	err := window.Move(o.handle, x, y)
	if err != nil && !o.moveWarned {
		o.moveWarned = true
		log.Printf("Move window failed, dragging disabled: %v", err)
	}
	return err
}

func (o *Overlay) onAnalyze() {
	if o.ctrl != nil {
		o.ctrl.OnAnalyzeRequested()
	}
}

func (o *Overlay) onClose() {
	if o.ctrl != nil {
		o.ctrl.OnCloseRequested()
	}
}

func (o *Overlay) onCopy() {
	if err := clipboard.Write(o.text); err != nil {
		log.Printf("Copy to clipboard failed: %v", err)
		return
	}
	log.Printf("Copied %d chars to clipboard", len(o.text))
}

func nativeHandle(w fyne.Window) window.Handle {
	nw, ok := w.(driver.NativeWindow)
	if !ok {
		return 0
	}
	var h window.Handle
	nw.RunNative(func(ctx any) {
		switch c := ctx.(type) {
		case driver.WindowsWindowContext:
			h = window.Handle(c.HWND)
		case driver.X11WindowContext:
			h = window.Handle(c.WindowHandle)
		case driver.MacWindowContext:
			h = window.Handle(c.NSWindow)
		}
	})
	return h
}
