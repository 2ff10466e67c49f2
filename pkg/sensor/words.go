package sensor

// UnknownWord is returned when a ghost has nothing to say.
const UnknownWord = "unknown"

// WordFamily is the vocabulary a ghost draws spirit box words from.
type WordFamily struct {
	Emotion []string `json:"emotion"`
	Theme   []string `json:"theme"`
}

// Len is the size of the combined pool.
func (f WordFamily) Len() int {
	return len(f.Emotion) + len(f.Theme)
}

// RandomWord draws uniformly from the combined emotion and theme pools, so a
// larger pool is proportionally more likely to be picked from.
func RandomWord(rng Source, f WordFamily) string {
	n := f.Len()
	if n == 0 {
		return UnknownWord
	}
	i := rng.Intn(n)
	if i < len(f.Emotion) {
		return f.Emotion[i]
	}
	return f.Theme[i-len(f.Emotion)]
}
