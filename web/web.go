// Package web carries the widget's embedded browser assets.
package web

import _ "embed"

// IndexHTML is the demo page hosting the booking widget.
//
//go:embed static/index.html
var IndexHTML []byte

// WidgetJS is the embeddable widget script.
//
//go:embed static/widget.js
var WidgetJS []byte
