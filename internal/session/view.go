package session

import (
	"github.com/mgpai22/cueline/internal/caption"
	"github.com/mgpai22/cueline/internal/playback"
	"github.com/mgpai22/cueline/internal/subtitle"
)

// one row of the caption list
type Item struct {
	Index  int     `json:"index"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Text   string  `json:"text"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// the caption list as the page renders it
type View struct {
	Revision uint64 `json:"revision"`
	Items    []Item `json:"captions"`
}

// player state plus the highlight set for the current position
type PlaybackState struct {
	playback.Status
	Timer  string `json:"timer"`
	Active []int  `json:"active"`
}

// View projects the store snapshot for display. Captions containing the
// player's current position are flagged active.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return project(s.store.Snapshot(), s.store.Revision(), s.player.CurrentTime())
}

// ListView projects captions with nothing playing, for the CLI.
func ListView(captions []caption.Caption) View {
	return project(captions, 0, -1)
}

func project(snap []caption.Caption, revision uint64, now float64) View {
	items := make([]Item, len(snap))
	for i, c := range snap {
		items[i] = Item{
			Index:  i,
			Start:  c.Start,
			End:    c.End,
			Text:   c.Text,
			Label:  subtitle.FormatLabel(c.Start, c.Text),
			Active: c.Contains(now),
		}
	}
	return View{Revision: revision, Items: items}
}

func (s *Session) PlaybackState() PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.player.Status()
	active := s.store.ActiveAt(st.Position)
	if active == nil {
		active = []int{}
	}
	return PlaybackState{
		Status: st,
		Timer:  subtitle.FormatTimer(st.Position, st.Duration),
		Active: active,
	}
}
