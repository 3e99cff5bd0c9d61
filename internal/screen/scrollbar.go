package screen

// Scrollbar is a vertical scroll indicator. Nothing is drawn when the
// content fits in the viewport.
type Scrollbar struct {
	ContentLength  int
	ViewportLength int
	Position       int
	ThumbStyle     Style
	TrackStyle     Style
}

// Thumb returns the offset and size of the thumb within a track of the
// given length.
func (s Scrollbar) Thumb(track int) (pos, size int) {
	if track <= 0 || s.ContentLength <= s.ViewportLength || s.ViewportLength <= 0 {
		return 0, 0
	}
	size = max(track*s.ViewportLength/s.ContentLength, 1)
	scrollable := s.ContentLength - s.ViewportLength
	p := min(max(s.Position, 0), scrollable)
	pos = (track - size) * p / scrollable
	return pos, size
}

func (s Scrollbar) Render(area Rect, buf *Buffer) {
	if area.Empty() {
		return
	}
	pos, size := s.Thumb(area.Height)
	if size == 0 {
		return
	}
	x := area.Right() - 1
	for i := 0; i < area.Height; i++ {
		if i >= pos && i < pos+size {
			buf.SetString(x, area.Y+i, "█", s.ThumbStyle)
		} else {
			buf.SetString(x, area.Y+i, "░", s.TrackStyle)
		}
	}
}
