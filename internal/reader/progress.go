package reader

import (
	"context"
	"math"
	"time"

	"github.com/readnwin/reader/internal/entities"
	"github.com/readnwin/reader/internal/logger"
)

// WordsPerPage is the page size assumed by GoToPage.
const WordsPerPage = 250

// pendingSave is a debounced progress write. It carries the user, the book id
// and a copy of the progress captured when it was scheduled.
type pendingSave struct {
	timer    *time.Timer
	userID   string
	bookID   string
	progress entities.ReadingProgress
}

// GoToChapter makes the chapter current and resets the position. Unknown
// chapter ids are ignored.
func (s *Store) GoToChapter(chapterID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Book == nil {
		return
	}
	idx := s.state.Book.ChapterIndex(chapterID)
	if idx < 0 {
		return
	}
	s.moveToChapterLocked(idx)
}

func (s *Store) NextChapter() {
	s.stepChapter(1)
}

func (s *Store) PreviousChapter() {
	s.stepChapter(-1)
}

func (s *Store) stepChapter(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Book == nil || s.state.CurrentChapter == nil {
		return
	}
	idx := s.state.Book.ChapterIndex(s.state.CurrentChapter.ID) + delta
	if idx < 0 || idx >= len(s.state.Book.Chapters) {
		return
	}
	s.moveToChapterLocked(idx)
}

func (s *Store) moveToChapterLocked(idx int) {
	ch := s.state.Book.Chapters[idx]
	s.state.CurrentChapter = &ch
	zero := 0
	s.updateProgressLocked(entities.ProgressUpdate{
		CurrentChapterID: &ch.ID,
		CurrentPosition:  &zero,
	})
}

func (s *Store) GoToPosition(position int) {
	s.UpdateProgress(entities.ProgressUpdate{CurrentPosition: &position})
}

// GoToPage moves to the position approximating page, assuming WordsPerPage
// words per page. It does nothing when the book has no words.
func (s *Store) GoToPage(page int) {
	s.mu.Lock()
	if s.state.Book == nil {
		s.mu.Unlock()
		return
	}
	total := s.state.Book.TotalWordCount()
	s.mu.Unlock()

	position, ok := PagePosition(page, total)
	if !ok {
		return
	}
	s.GoToPosition(position)
}

// PagePosition converts a page number to a percentage of the book,
// floor(page*WordsPerPage/totalWords*100), clamped to [0, 100].
func PagePosition(page, totalWords int) (int, bool) {
	if totalWords <= 0 {
		return 0, false
	}
	pct := math.Floor(float64(page*WordsPerPage) / float64(totalWords) * 100)
	return int(math.Max(0, math.Min(100, pct))), true
}

// UpdateProgress merges u into the in-memory progress immediately and
// schedules a debounced save. A later update within the debounce window
// replaces the pending save.
func (s *Store) UpdateProgress(u entities.ProgressUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateProgressLocked(u)
}

func (s *Store) updateProgressLocked(u entities.ProgressUpdate) {
	if s.state.Book == nil {
		return
	}
	now := s.now()
	if s.state.Progress == nil {
		s.state.Progress = &entities.ReadingProgress{
			UserID:    s.userID,
			BookID:    s.state.Book.ID,
			StartedAt: now,
		}
	}
	u.Apply(s.state.Progress)
	s.state.Progress.LastReadAt = now
	s.scheduleSaveLocked(s.userID, s.state.Book.ID, *cloneProgress(s.state.Progress))
}

func (s *Store) scheduleSaveLocked(userID, bookID string, progress entities.ReadingProgress) {
	if prev := s.pending; prev != nil && prev.timer.Stop() {
		s.wg.Done()
	}

	p := &pendingSave{userID: userID, bookID: bookID, progress: progress}
	s.pending = p
	s.wg.Add(1)
	p.timer = time.AfterFunc(s.debounce, func() {
		defer s.wg.Done()
		s.mu.Lock()
		if s.pending != p {
			s.mu.Unlock()
			return
		}
		s.pending = nil
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), s.backgroundTimeout)
		defer cancel()
		s.saveProgress(ctx, p)
	})
}

// takePendingLocked detaches the pending save, if any, and stops its timer.
func (s *Store) takePendingLocked() *pendingSave {
	p := s.pending
	if p == nil {
		return nil
	}
	s.pending = nil
	if p.timer.Stop() {
		s.wg.Done()
	}
	return p
}

// FlushProgress saves a pending progress update immediately.
func (s *Store) FlushProgress(ctx context.Context) error {
	s.mu.Lock()
	p := s.takePendingLocked()
	s.mu.Unlock()
	if p == nil {
		return nil
	}
	return s.saveProgress(ctx, p)
}

func (s *Store) saveProgress(ctx context.Context, p *pendingSave) error {
	err := s.api.SaveProgress(as(ctx, p.userID), p.bookID, p.progress)
	if err != nil {
		s.log.Warn("failed to save reading progress",
			logger.String("book_id", p.bookID),
			logger.Error(err),
		)
	}
	return err
}
