package tray

import "fyne.io/fyne/v2"

// SVG content for the tray icon: a selection rectangle with a speaker.
const SVGContent = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16" width="16" height="16">
  <rect x="1.5" y="2.5" width="9" height="6" fill="none" stroke="#d40000" stroke-width="1.5" stroke-dasharray="2,1"/>
  <path d="M7 10.5h2l2.5-2v7l-2.5-2H7z" fill="#333333"/>
  <path d="M13 10.2a3 3 0 0 1 0 3.6" fill="none" stroke="#333333" stroke-width="0.9" stroke-linecap="round"/>
</svg>`

var Icon = fyne.NewStaticResource("screen-region-reader.svg", []byte(SVGContent))
