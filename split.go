package linereader

// splitter cuts decoded text into lines on LF, CRLF and CR. Text that is not
// yet terminated is held as the fragment until more text or the end arrives.
type splitter struct {
	fragment string
	// cr is set when the last text ended in CR, so a leading LF of the next
	// text belongs to the same boundary.
	cr bool
}

// feed appends the lines completed by text to lines and returns it.
func (s *splitter) feed(text string, lines []string) []string {
	// empty text keeps a pending CR for the next call
	if s.cr && len(text) > 0 {
		s.cr = false
		if text[0] == '\n' {
			text = text[1:]
		}
	}

	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
		case '\r':
			if i+1 == len(text) {
				s.cr = true
			} else if text[i+1] == '\n' {
				lines = append(lines, s.take(text[start:i]))
				i++
				start = i + 1
				continue
			}
		default:
			continue
		}
		lines = append(lines, s.take(text[start:i]))
		start = i + 1
	}

	if start < len(text) {
		s.fragment += text[start:]
	}
	return lines
}

func (s *splitter) take(tail string) string {
	line := s.fragment + tail
	s.fragment = ""
	return line
}

// flush returns the held fragment, which may be empty.
func (s *splitter) flush() string {
	s.cr = false
	return s.take("")
}
