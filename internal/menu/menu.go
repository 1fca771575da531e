// Package menu draws the scenario picker on a tcell screen
package menu

import (
	"github.com/gdamore/tcell/v2"
)

// Item is one menu entry
type Item struct {
	Key   string // command name the entry launches
	Title string
}

// Action is the outcome of one key press
type Action int

const (
	ActionNone Action = iota
	ActionSelect
	ActionQuit
)

// Menu is a vertical list with one highlighted entry.
// Moving past either end wraps around.
type Menu struct {
	Title    string
	Items    []Item
	Selected int
}

var (
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleItem     = tcell.StyleDefault
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	styleHint     = tcell.StyleDefault.Dim(true)
)

// New creates a menu with the first item selected
func New(title string, items ...Item) *Menu {
	return &Menu{Title: title, Items: items}
}

// Up moves the selection one entry up
func (m *Menu) Up() {
	if len(m.Items) == 0 {
		return
	}
	m.Selected = (m.Selected - 1 + len(m.Items)) % len(m.Items)
}

// Down moves the selection one entry down
func (m *Menu) Down() {
	if len(m.Items) == 0 {
		return
	}
	m.Selected = (m.Selected + 1) % len(m.Items)
}

// Current returns the selected item
func (m *Menu) Current() Item {
	return m.Items[m.Selected]
}

// HandleKey applies a key press: arrows (and k/j) move, Enter selects, Esc/q/Ctrl+C quit
func (m *Menu) HandleKey(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyUp:
		m.Up()
	case tcell.KeyDown:
		m.Down()
	case tcell.KeyEnter:
		if len(m.Items) > 0 {
			return ActionSelect
		}
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			m.Up()
		case 'j':
			m.Down()
		case 'q':
			return ActionQuit
		}
	}
	return ActionNone
}

// Draw renders the menu at the top-left corner of s
func (m *Menu) Draw(s tcell.Screen) {
	s.Clear()
	drawText(s, 0, 0, styleTitle, m.Title)
	for i, it := range m.Items {
		if i == m.Selected {
			drawText(s, 0, i+1, styleSelected, "> "+it.Title)
		} else {
			drawText(s, 0, i+1, styleItem, "  "+it.Title)
		}
	}
	drawText(s, 0, len(m.Items)+2, styleHint, "↑/↓ move  Enter run  q quit")
	s.Show()
}

// Choose runs the event loop until an item is selected or the user quits.
// ok is false on quit.
func (m *Menu) Choose(s tcell.Screen) (item Item, ok bool) {
	m.Draw(s)
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			// screen finalized
			return Item{}, false
		case *tcell.EventResize:
			s.Sync()
			m.Draw(s)
		case *tcell.EventKey:
			switch m.HandleKey(ev) {
			case ActionSelect:
				return m.Current(), true
			case ActionQuit:
				return Item{}, false
			}
			m.Draw(s)
		}
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
