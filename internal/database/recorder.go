package database

import (
	"context"

	"pagePerception/internal/browser"
)

// Recorder сохраняет каждый проход восприятия браузера в историю.
type Recorder struct {
	repo *SnapshotRepository
}

func NewRecorder(repo *SnapshotRepository) *Recorder {
	return &Recorder{repo: repo}
}

func (r *Recorder) Record(ctx context.Context, kind string, view *browser.PageView) error {
	return r.repo.Create(ctx, snapshotFromView(kind, view))
}

func snapshotFromView(kind string, view *browser.PageView) *Snapshot {
	s := &Snapshot{
		Kind:         kind,
		URL:          view.URL,
		Title:        view.Title,
		Content:      view.Content,
		ElementCount: len(view.Elements),
	}
	for _, e := range view.Elements {
		s.Elements = append(s.Elements, SnapshotElement{
			Position: e.Index,
			Tag:      e.Tag,
			Text:     e.Text,
			Selector: e.Selector,
		})
	}
	return s
}
