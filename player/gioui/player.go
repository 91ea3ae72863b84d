package gioui

import (
	"fmt"
	"image"
	"io"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"

	tahti "github.com/jkataja/tahti"
	"github.com/jkataja/tahti/player"
)

type (
	// Player is the gio GUI of the player. It embeds the model, so all the
	// model operations are directly accessible.
	Player struct {
		Theme          *material.Theme
		TransportPanel *TransportPanel
		PopupAlert     *PopupAlert
		Explorer       *explorer.Explorer
		Exploring      bool

		filePathString player.String
		preferences    Preferences

		*player.Model
	}

	C = layout.Context
	D = layout.Dimensions
)

func NewPlayer(model *player.Model) *Player {
	p := &Player{
		Theme:          material.NewTheme(),
		Model:          model,
		filePathString: model.FilePath(),
	}
	p.Theme.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	p.Theme.Palette.Bg = backgroundColor
	p.Theme.Palette.Fg = highEmphasisTextColor
	p.Theme.Palette.ContrastBg = primaryColor
	p.Theme.Palette.ContrastFg = black
	p.TransportPanel = NewTransportPanel(model)
	p.PopupAlert = NewPopupAlert(model.Alerts(), p.Theme.Shaper)
	p.preferences = MakePreferences()
	if p.preferences.YmlError != nil {
		model.Alerts().Add(fmt.Sprintf("Preferences: %v", p.preferences.YmlError), player.Warning)
	}
	return p
}

// Main runs the GUI main loop until the user quits the player.
func (p *Player) Main() {
	var ops op.Ops
	titlePath := ""
	for !p.Quitted() {
		w := new(app.Window)
		w.Option(app.Size(p.preferences.WindowSize()))
		w.Option(app.Title(titleFromPath(titlePath)))
		p.Explorer = explorer.NewExplorer(w)
		acks := make(chan struct{})
		events := make(chan event.Event)
		go func() {
			for {
				ev := w.Event()
				events <- ev
				<-acks
				if _, ok := ev.(app.DestroyEvent); ok {
					return
				}
			}
		}()
	F:
		for {
			select {
			case e := <-p.Broker().ToModel:
				p.ProcessMsg(e)
				w.Invalidate()
			case e := <-events:
				switch e := e.(type) {
				case app.DestroyEvent:
					p.RequestQuit().Do()
					acks <- struct{}{}
					break F // this window is done, we need to create a new one
				case app.FrameEvent:
					if titlePath != p.filePathString.Value() {
						titlePath = p.filePathString.Value()
						w.Option(app.Title(titleFromPath(titlePath)))
					}
					gtx := app.NewContext(&ops, e)
					p.Layout(gtx, w)
					e.Frame(gtx.Ops)
					if p.Quitted() {
						w.Perform(system.ActionClose)
					}
				}
				acks <- struct{}{}
			}
		}
	}
}

func titleFromPath(path string) string {
	if path == "" {
		return "Tahti"
	}
	return fmt.Sprintf("Tahti - %s", path)
}

func (p *Player) Layout(gtx C, w *app.Window) {
	defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, backgroundColor)

	p.TransportPanel.Layout(gtx, p)
	p.PopupAlert.Layout(gtx)
	p.showDialog(gtx)
	// top level key event handler for the whole app
	for {
		ev, ok := gtx.Event(
			key.Filter{Name: "", Optional: key.ModAlt | key.ModCommand | key.ModShift | key.ModShortcut | key.ModSuper},
		)
		if !ok {
			break
		}
		if e, ok := ev.(key.Event); ok {
			p.KeyEvent(e, gtx)
		}
	}
}

func (p *Player) showDialog(gtx C) {
	if p.Exploring {
		return
	}
	switch p.Dialog() {
	case player.OpenSequenceExplorer:
		p.explorerChooseFile(p.ReadSequence, tahti.SequenceExtensions...)
	}
}

func (p *Player) explorerChooseFile(success func(io.ReadCloser), extensions ...string) {
	p.Exploring = true
	go func() {
		file, err := p.Explorer.ChooseFile(extensions...)
		p.Broker().ToModel <- player.MsgToModel{Data: func() {
			p.Exploring = false
			if err == nil {
				success(file)
			} else {
				p.Cancel().Do()
				if err != explorer.ErrUserDecline {
					p.Alerts().Add(err.Error(), player.Error)
				}
			}
		}}
	}()
}
