package dirsync

import (
	"dirsync/lib/textutil"

	"github.com/antzucaro/matchr"
)

// similarity at which an added and a removed email are reported as a likely
// address change of the same person
const hintThreshold = 0.9

type Hint struct {
	Removed    string
	Added      string
	Similarity float64
}

// NearMatches pairs each removed email with the most similar unpaired added
// email. the pairs are informational only, both sides are still applied.
func NearMatches(removed, added []string) []Hint {
	var hints []Hint
	paired := make(map[string]struct{})

	for _, r := range removed {
		var best float64
		var bestAdded string
		for _, a := range added {
			if _, ok := paired[a]; ok {
				continue
			}
			similarity := matchr.JaroWinkler(textutil.NormalizeEmail(r), textutil.NormalizeEmail(a), false)
			if similarity > best {
				best = similarity
				bestAdded = a
			}
		}
		if best >= hintThreshold {
			hints = append(hints, Hint{Removed: r, Added: bestAdded, Similarity: best})
			paired[bestAdded] = struct{}{}
		}
	}
	return hints
}
