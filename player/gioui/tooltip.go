package gioui

import (
	"image"
	"image/color"
	"time"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/widget/material"
	"gioui.org/x/component"
)

// TipArea holds the state information for displaying a tooltip when the
// widget inside it is hovered.
type TipArea struct {
	component.VisibilityAnimation
	Hover component.InvalidateDeadline
	Exit  component.InvalidateDeadline
	init  bool
}

const (
	tipAreaHoverDelay   = time.Millisecond * 500
	tipAreaFadeDuration = time.Millisecond * 250
	tipAreaExitDelay    = time.Millisecond * 5000
)

// Layout renders the widget and summons the tooltip when it is hovered.
func (t *TipArea) Layout(gtx C, tip component.Tooltip, w layout.Widget) D {
	if !t.init {
		t.init = true
		t.VisibilityAnimation.State = component.Invisible
		t.VisibilityAnimation.Duration = tipAreaFadeDuration
	}
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: t,
			Kinds:  pointer.Enter | pointer.Leave,
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch e.Kind {
		case pointer.Enter:
			t.Hover.SetTarget(gtx.Now.Add(tipAreaHoverDelay))
			// the exit timer avoids tooltips staying visible indefinitely if
			// we never get the pointer.Leave event
			t.Exit.SetTarget(gtx.Now.Add(tipAreaExitDelay))
		case pointer.Leave, pointer.Cancel:
			t.VisibilityAnimation.Disappear(gtx.Now)
			t.Hover.ClearTarget()
		}
	}
	if t.Hover.Process(gtx) {
		t.VisibilityAnimation.Appear(gtx.Now)
	}
	if t.Exit.Process(gtx) {
		t.VisibilityAnimation.Disappear(gtx.Now)
	}
	return layout.Stack{}.Layout(gtx,
		layout.Stacked(w),
		layout.Expanded(func(gtx C) D {
			defer pointer.PassOp{}.Push(gtx.Ops).Pop()
			defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Min}).Push(gtx.Ops).Pop()
			event.Op(gtx.Ops, t)

			originalMin := gtx.Constraints.Min
			gtx.Constraints.Min = image.Point{}

			if t.Visible() {
				macro := op.Record(gtx.Ops)
				tip.Bg = component.Interpolate(color.NRGBA{}, tip.Bg, t.VisibilityAnimation.Revealed(gtx))
				dims := tip.Layout(gtx)
				call := macro.Stop()
				xOffset := (originalMin.X / 2) - (dims.Size.X / 2)
				yOffset := originalMin.Y
				macro = op.Record(gtx.Ops)
				op.Offset(image.Pt(xOffset, yOffset)).Add(gtx.Ops)
				call.Add(gtx.Ops)
				call = macro.Stop()
				op.Defer(gtx.Ops, call)
			}
			return D{}
		}),
	)
}

func Tooltip(th *material.Theme, tip string) component.Tooltip {
	tooltip := component.PlatformTooltip(th, tip)
	tooltip.Bg = popupSurfaceColor
	tooltip.Text.Color = white
	return tooltip
}
