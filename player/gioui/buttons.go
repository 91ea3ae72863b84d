package gioui

import (
	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"

	"github.com/jkataja/tahti/player"
)

type (
	// ActionClickable is a button that fires an Action when clicked.
	ActionClickable struct {
		Action    player.Action
		Clickable widget.Clickable
		TipArea   TipArea
	}

	// BoolClickable is a button that toggles a Bool when clicked.
	BoolClickable struct {
		Bool      player.Bool
		Clickable widget.Clickable
		TipArea   TipArea
	}

	TipIconButtonStyle struct {
		TipArea         *TipArea
		IconButtonStyle material.IconButtonStyle
		Tooltip         component.Tooltip
	}
)

func NewActionClickable(a player.Action) *ActionClickable {
	return &ActionClickable{Action: a}
}

func NewBoolClickable(b player.Bool) *BoolClickable {
	return &BoolClickable{Bool: b}
}

func ActionIcon(gtx C, th *material.Theme, w *ActionClickable, icon []byte, tip string) TipIconButtonStyle {
	for w.Clickable.Clicked(gtx) {
		w.Action.Do()
	}
	return TipIcon(th, &w.Clickable, &w.TipArea, icon, w.Action.Enabled(), tip)
}

func ToggleIcon(gtx C, th *material.Theme, w *BoolClickable, offIcon, onIcon []byte, offTip, onTip string) TipIconButtonStyle {
	for w.Clickable.Clicked(gtx) {
		w.Bool.Toggle()
	}
	icon := offIcon
	tip := offTip
	if w.Bool.Value() {
		icon = onIcon
		tip = onTip
	}
	return TipIcon(th, &w.Clickable, &w.TipArea, icon, w.Bool.Enabled(), tip)
}

func TipIcon(th *material.Theme, c *widget.Clickable, tipArea *TipArea, icon []byte, enabled bool, tip string) TipIconButtonStyle {
	return TipIconButtonStyle{
		TipArea:         tipArea,
		IconButtonStyle: IconButton(th, c, icon, enabled),
		Tooltip:         Tooltip(th, tip),
	}
}

func (t TipIconButtonStyle) Layout(gtx C) D {
	return t.TipArea.Layout(gtx, t.Tooltip, t.IconButtonStyle.Layout)
}

func IconButton(th *material.Theme, w *widget.Clickable, icon []byte, enabled bool) material.IconButtonStyle {
	ret := material.IconButton(th, w, widgetForIcon(icon), "")
	ret.Background = transparent
	ret.Inset = layout.UniformInset(unit.Dp(6))
	if enabled {
		ret.Color = primaryColor
	} else {
		ret.Color = disabledTextColor
	}
	return ret
}

func LowEmphasisButton(th *material.Theme, w *widget.Clickable, text string) material.ButtonStyle {
	ret := material.Button(th, w, text)
	ret.Color = th.Palette.Fg
	ret.Background = transparent
	ret.Inset = layout.UniformInset(unit.Dp(6))
	return ret
}
