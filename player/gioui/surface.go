package gioui

import (
	"image/color"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
)

// Surface fills the background behind the widget with a gray level.
type Surface struct {
	Gray  int
	Inset layout.Inset
}

func (s Surface) Layout(gtx C, widget layout.Widget) D {
	grayInt := s.Gray
	var grayUint8 uint8
	if grayInt < 0 {
		grayUint8 = 0
	} else if grayInt > 255 {
		grayUint8 = 255
	} else {
		grayUint8 = uint8(grayInt)
	}
	gtxbg := gtx
	gtxbg.Constraints.Min = gtxbg.Constraints.Max
	c := color.NRGBA{R: grayUint8, G: grayUint8, B: grayUint8, A: 255}
	paint.FillShape(gtxbg.Ops, c, clip.Rect{Max: gtxbg.Constraints.Min}.Op())
	return s.Inset.Layout(gtx, widget)
}
