package gioui

import (
	"path/filepath"

	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/jkataja/tahti/player"
	"github.com/jkataja/tahti/version"
)

// TransportPanel is the whole surface of the player window: the toolbar, the
// position slider and the status labels.
type TransportPanel struct {
	OpenBtn    *ActionClickable
	ReloadBtn  *ActionClickable
	PlayingBtn *BoolClickable
	StopBtn    *ActionClickable
	RewindBtn  *ActionClickable
	RefreshBtn *ActionClickable
	DeviceBtn  widget.Clickable
	DeviceTip  TipArea

	positionFloat widget.Float

	// Hints
	openHint           string
	reloadHint         string
	playHint, stopHint string
	haltHint           string
	rewindHint         string
	refreshHint        string
	deviceHint         string
}

func NewTransportPanel(model *player.Model) *TransportPanel {
	p := &TransportPanel{
		OpenBtn:    NewActionClickable(model.OpenSequence()),
		ReloadBtn:  NewActionClickable(model.ReloadSequence()),
		PlayingBtn: NewBoolClickable(model.Playing()),
		StopBtn:    NewActionClickable(model.StopPlaying()),
		RewindBtn:  NewActionClickable(model.Rewind()),
		RefreshBtn: NewActionClickable(model.Devices().Refresh()),
	}
	p.openHint = makeHint("Open MIDI file", " (%s)", "OpenSequence")
	p.reloadHint = makeHint("Reload file", " (%s)", "ReloadSequence")
	p.playHint = makeHint("Play", " (%s)", "PlayingToggle")
	p.stopHint = makeHint("Pause", " (%s)", "PlayingToggle")
	p.haltHint = makeHint("Stop", " (%s)", "StopPlaying")
	p.rewindHint = makeHint("Rewind", " (%s)", "Rewind")
	p.refreshHint = makeHint("Rescan MIDI devices", " (%s)", "RefreshDevices")
	p.deviceHint = makeHint("Switch synthesizer device", " (%s)", "NextDevice")
	return p
}

func (p *TransportPanel) Layout(gtx C, pl *Player) D {
	model := pl.Model
	openBtnStyle := ActionIcon(gtx, pl.Theme, p.OpenBtn, icons.FileFolderOpen, p.openHint)
	reloadBtnStyle := ActionIcon(gtx, pl.Theme, p.ReloadBtn, icons.NavigationRefresh, p.reloadHint)
	playBtnStyle := ToggleIcon(gtx, pl.Theme, p.PlayingBtn, icons.AVPlayArrow, icons.AVPause, p.playHint, p.stopHint)
	stopBtnStyle := ActionIcon(gtx, pl.Theme, p.StopBtn, icons.AVStop, p.haltHint)
	rewindBtnStyle := ActionIcon(gtx, pl.Theme, p.RewindBtn, icons.AVFastRewind, p.rewindHint)
	refreshBtnStyle := ActionIcon(gtx, pl.Theme, p.RefreshBtn, icons.ActionCached, p.refreshHint)

	for p.DeviceBtn.Clicked(gtx) {
		cycleDevice(model)
	}
	deviceBtnStyle := LowEmphasisButton(pl.Theme, &p.DeviceBtn, model.Devices().Current())

	fileText := "No file loaded"
	if path := model.FilePath().Value(); path != "" {
		fileText = filepath.Base(path)
	}

	return Surface{Gray: 37, Inset: layout.UniformInset(unit.Dp(6))}.Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx C) D {
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
					layout.Rigid(openBtnStyle.Layout),
					layout.Rigid(reloadBtnStyle.Layout),
					layout.Rigid(playBtnStyle.Layout),
					layout.Rigid(stopBtnStyle.Layout),
					layout.Rigid(rewindBtnStyle.Layout),
					layout.Flexed(1, func(gtx C) D { return D{Size: gtx.Constraints.Min} }),
					layout.Rigid(func(gtx C) D {
						return p.DeviceTip.Layout(gtx, Tooltip(pl.Theme, p.deviceHint), deviceBtnStyle.Layout)
					}),
					layout.Rigid(refreshBtnStyle.Layout),
				)
			}),
			layout.Rigid(func(gtx C) D { return p.layoutPosition(gtx, pl) }),
			layout.Rigid(func(gtx C) D {
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
					layout.Flexed(1, Label(fileText, mediumEmphasisTextColor, pl.Theme.Shaper)),
					layout.Rigid(SizedLabel(version.VersionOrHash, mediumEmphasisTextColor, pl.Theme.Shaper, unit.Sp(12))),
				)
			}),
		)
	})
}

// layoutPosition lays out the position slider and the time label. While the
// slider is being dragged, the drag wins over the position reported by the
// sequencer.
func (p *TransportPanel) layoutPosition(gtx C, pl *Player) D {
	position := pl.Model.Position()
	r := position.Range()
	if p.positionFloat.Update(gtx) {
		position.SetValue(int(p.positionFloat.Value*float32(r.Max-r.Min)) + r.Min)
	}
	if !p.positionFloat.Dragging() && r.Max > r.Min {
		p.positionFloat.Value = float32(position.Value()-r.Min) / float32(r.Max-r.Min)
	}
	sliderStyle := material.Slider(pl.Theme, &p.positionFloat)
	sliderStyle.Color = primaryColor
	if !position.Enabled() {
		sliderStyle.Color = disabledTextColor
	}
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		layout.Flexed(1, sliderStyle.Layout),
		layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout),
		layout.Rigid(Label(pl.Model.PositionLabel(), highEmphasisTextColor, pl.Theme.Shaper)),
	)
}

// cycleDevice selects the next synthesizer device, wrapping around at the end
// of the list.
func cycleDevice(model *player.Model) {
	sel := model.Devices().Select()
	r := sel.Range()
	if r.Max < r.Min {
		return
	}
	sel.SetValue((sel.Value()+1-r.Min)%(r.Max-r.Min+1) + r.Min)
}
