package runner

import (
	"github.com/aretw0/talebox/pkg/book"
	"github.com/aretw0/talebox/pkg/domain"
)

// Snapshot is the last state presented by the controller.
type Snapshot struct {
	// Seq increases with every rendered step.
	Seq      uint64                 `json:"seq"`
	Book     string                 `json:"book"`
	Title    string                 `json:"title"`
	Stage    string                 `json:"stage"`
	Root     bool                   `json:"root"`
	Controls domain.ControlSettings `json:"controls"`
	Next     string                 `json:"next"`
	Settings bool                   `json:"settings"`
	Paused   bool                   `json:"paused"`
	Volume   int                    `json:"volume"`
	Books    int                    `json:"books"`
	Index    int                    `json:"index"`
}

// Snapshot returns the last published state. Safe for concurrent use.
func (r *Runner) Snapshot() Snapshot {
	return *r.snapshot.Load()
}

func (r *Runner) publish(b *book.Book, p domain.Presentation, next Next) {
	r.snapshot.Store(&Snapshot{
		Seq:      r.snapshot.Load().Seq + 1,
		Book:     b.ID(),
		Title:    b.Title(),
		Stage:    p.StageID,
		Root:     p.Root,
		Controls: p.Controls,
		Next:     next.String(),
		Settings: r.settings,
		Paused:   r.audio.IsPaused(),
		Volume:   r.audio.Volume(),
		Books:    r.library.Len(),
		Index:    r.library.Index(),
	})
}
