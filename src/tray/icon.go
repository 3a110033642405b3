package tray

import "fyne.io/fyne/v2"

// iconSVG is the tray and window icon: a capture frame with a lens.
const iconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16" width="16" height="16">
  <!-- Capture frame corners -->
  <path d="M1 5V1h4M11 1h4v4M15 11v4h-4M5 15H1v-4" fill="none" stroke="#1A73E8" stroke-width="1.5"/>

  <!-- Lens -->
  <circle cx="8" cy="8" r="3.2" fill="none" stroke="#FFB900" stroke-width="1.4"/>
  <circle cx="8" cy="8" r="1.2" fill="#FFB900"/>
</svg>`

// Icon is the application icon resource.
var Icon = fyne.NewStaticResource("ghost-overlay.svg", []byte(iconSVG))
