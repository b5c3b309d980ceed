package rawparse

import "encoding/json"

// LastJSONBlock locates the rightmost complete, balanced JSON object or array
// in s and returns it. CLI transcripts often contain JSON-looking fragments in
// reasoning preamble before the final answer, so the first opening delimiter
// is frequently the wrong one; the last complete block is the model's answer.
//
// The scan walks closing delimiters from the end of s backward. For each one
// it matches the enclosing opening delimiter by depth counting and accepts the
// candidate only if it is strictly valid JSON, so unbalanced fragments and
// braces inside prose are skipped over rather than guessed at.
func LastJSONBlock(s string) (string, bool) {
	for end := len(s) - 1; end >= 0; end-- {
		cb := s[end]
		if cb != '}' && cb != ']' {
			continue
		}
		ob := byte('{')
		if cb == ']' {
			ob = '['
		}
		start, ok := matchBackward(s, end, ob, cb)
		if !ok {
			continue
		}
		candidate := s[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}
	return "", false
}

// matchBackward finds the position of the opening delimiter matching the
// closing delimiter at end, scanning leftward with a depth counter. String
// context is not tracked on the backward pass; json.Valid on the candidate is
// the arbiter of whether the match was real.
func matchBackward(s string, end int, ob, cb byte) (int, bool) {
	depth := 0
	for i := end; i >= 0; i-- {
		switch s[i] {
		case cb:
			depth++
		case ob:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// firstLastSpan returns the substring from the first opening delimiter to the
// last closing delimiter, the span an HTTP JSON body wrapped in prose or
// markdown fencing tightly encloses.
func firstLastSpan(s string) (string, bool) {
	first := -1
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			first = i
			break
		}
	}
	if first == -1 {
		return "", false
	}
	last := -1
	for i := len(s) - 1; i >= first; i-- {
		if s[i] == '}' || s[i] == ']' {
			last = i
			break
		}
	}
	if last == -1 {
		return "", false
	}
	return s[first : last+1], true
}
