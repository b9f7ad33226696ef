package main

import (
	"fmt"
	"strings"

	"github.com/jroimartin/gocui"
)

// ChatUI is a two-pane terminal client: a scrolling message view on top and
// a one-line input box at the bottom. Typed lines are handed to the send
// callback; AppendMessage is safe to call from any goroutine.
type ChatUI struct {
	gui     *gocui.Gui
	msgView string
	inView  string
	send    func(line string)
}

func NewChatUI(send func(line string)) (*ChatUI, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}

	ui := &ChatUI{
		gui:     g,
		msgView: "messages",
		inView:  "input",
		send:    send,
	}

	g.SetManagerFunc(ui.layout)
	g.Cursor = true

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, ui.quit); err != nil {
		g.Close()
		return nil, err
	}
	if err := g.SetKeybinding(ui.inView, gocui.KeyEnter, gocui.ModNone, ui.submit); err != nil {
		g.Close()
		return nil, err
	}

	return ui, nil
}

func (ui *ChatUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView(ui.msgView, 0, 0, maxX-1, maxY-4); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Chat"
		v.Wrap = true
		v.Autoscroll = true
	}

	if v, err := g.SetView(ui.inView, 0, maxY-3, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Message"
		v.Editable = true
		if _, err := g.SetCurrentView(ui.inView); err != nil {
			return err
		}
	}

	return nil
}

func (ui *ChatUI) submit(g *gocui.Gui, v *gocui.View) error {
	line := strings.TrimRight(v.Buffer(), "\n")
	v.Clear()
	if err := v.SetCursor(0, 0); err != nil {
		return err
	}
	if line == "" {
		return nil
	}

	// Commands are echoed locally, like the plain messages the server will
	// broadcast back to us.
	if strings.HasPrefix(line, "/") && !strings.HasPrefix(line, "//") {
		ui.AppendMessage(line)
	}

	ui.send(line)
	return nil
}

// AppendMessage adds one line to the message view.
func (ui *ChatUI) AppendMessage(text string) {
	ui.gui.Update(func(g *gocui.Gui) error {
		v, err := g.View(ui.msgView)
		if err != nil {
			return err
		}
		fmt.Fprintln(v, text)
		return nil
	})
}

func (ui *ChatUI) quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

// Run blocks running the UI main loop until quit.
func (ui *ChatUI) Run() error {
	defer ui.gui.Close()
	if err := ui.gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

// Close tears the UI down from outside the main loop.
func (ui *ChatUI) Close() {
	ui.gui.Update(func(g *gocui.Gui) error {
		return gocui.ErrQuit
	})
}
