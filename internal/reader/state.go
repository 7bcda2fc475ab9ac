package reader

import "github.com/readnwin/reader/internal/entities"

func (st State) clone() State {
	out := st
	out.Book = st.Book.Clone()
	if st.CurrentChapter != nil {
		ch := *st.CurrentChapter
		out.CurrentChapter = &ch
	}
	out.Progress = cloneProgress(st.Progress)
	if st.Session != nil {
		sess := *st.Session
		sess.EndTime = cloneTime(st.Session.EndTime)
		out.Session = &sess
	}
	out.Highlights = copySlice(st.Highlights)
	if st.Notes != nil {
		out.Notes = make([]entities.UserNote, len(st.Notes))
		for i, n := range st.Notes {
			out.Notes[i] = cloneNote(n)
		}
	}
	out.Bookmarks = copySlice(st.Bookmarks)
	out.SearchResults = copySlice(st.SearchResults)
	return out
}

// resetBook clears everything tied to the current book. Settings, loading
// flag and error are kept.
func (st *State) resetBook() {
	st.Book = nil
	st.CurrentChapter = nil
	st.Progress = nil
	st.Session = nil
	st.Highlights = []entities.UserHighlight{}
	st.Notes = []entities.UserNote{}
	st.Bookmarks = []entities.Bookmark{}
	st.SearchResults = []entities.SearchResult{}
}

func cloneProgress(p *entities.ReadingProgress) *entities.ReadingProgress {
	if p == nil {
		return nil
	}
	c := *p
	c.CompletedAt = cloneTime(p.CompletedAt)
	return &c
}

func cloneNote(n entities.UserNote) entities.UserNote {
	if n.Position != nil {
		pos := *n.Position
		n.Position = &pos
	}
	if n.Tags != nil {
		n.Tags = append(entities.Tags(nil), n.Tags...)
	}
	return n
}

func cloneTime[T any](t *T) *T {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// copySlice copies src keeping the nil/empty distinction.
func copySlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	out := make([]T, len(src))
	copy(out, src)
	return out
}
