package captions

// SyncSession records word start times as the user taps along with the
// voiceover.
type SyncSession struct {
	words   []string
	timings []float64
	active  bool
}

// Start begins a session over the words of transcript, discarding earlier marks.
func (s *SyncSession) Start(transcript string) {
	s.words = Split(transcript)
	s.timings = s.timings[:0]
	s.active = len(s.words) > 0
}

// Active reports whether marks are being recorded.
func (s *SyncSession) Active() bool { return s.active }

// Current returns the word awaiting a mark and the next two for display.
func (s *SyncSession) Current() (word string, upcoming []string) {
	i := len(s.timings)
	if i >= len(s.words) {
		return "", nil
	}
	end := min(i+3, len(s.words))
	return s.words[i], s.words[i+1 : end]
}

// Progress returns the number of marked words and the total.
func (s *SyncSession) Progress() (marked, total int) {
	return len(s.timings), len(s.words)
}

// Mark records at as the start of the current word. The session ends on its
// own once every word is marked.
func (s *SyncSession) Mark(at float64) {
	if !s.active {
		return
	}
	s.timings = append(s.timings, at)
	if len(s.timings) >= len(s.words) {
		s.active = false
	}
}

// Stop ends the session. Unmarked words are spread evenly between the last
// mark and audioDuration; with no duration known they share the five seconds
// after the last mark.
func (s *SyncSession) Stop(audioDuration float64) {
	s.active = false
	n := len(s.timings)
	if n == 0 || n >= len(s.words) {
		return
	}
	last := s.timings[n-1]
	if audioDuration <= last {
		audioDuration = last + 5
	}
	remaining := len(s.words) - n
	// the last marked word keeps a slot of its own
	step := (audioDuration - last) / float64(remaining+1)
	for k := 1; k <= remaining; k++ {
		s.timings = append(s.timings, last+float64(k)*step)
	}
}

// Timings returns the recorded start times.
func (s *SyncSession) Timings() []float64 {
	return append([]float64(nil), s.timings...)
}

// Reset clears the session.
func (s *SyncSession) Reset() {
	*s = SyncSession{}
}
