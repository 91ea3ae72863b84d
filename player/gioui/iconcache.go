package gioui

import (
	"fmt"

	"gioui.org/widget"
)

var iconCache = map[*byte]*widget.Icon{}

// widgetForIcon returns a widget for the IconVG data, caching the icons so
// each one is decoded only once.
func widgetForIcon(icon []byte) *widget.Icon {
	if icon == nil {
		return nil
	}
	if w, ok := iconCache[&icon[0]]; ok {
		return w
	}
	w, err := widget.NewIcon(icon)
	if err != nil {
		panic(fmt.Errorf("invalid icon data: %w", err))
	}
	iconCache[&icon[0]] = w
	return w
}
