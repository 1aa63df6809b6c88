package model

// PitchSequence is an ordered list of note numbers, one per note onset.
// It is []int rather than []uint8 so it marshals as a JSON array of
// numbers instead of a base64 string.
type PitchSequence = []int

// FileMeta is derived from the first tempo and time-signature events found
// in a file. It is never stored.
type FileMeta struct {
	BPM         float64
	Numerator   int
	Denominator int
}

type IndexEntry struct {
	Path           string        `json:"path"`
	MelodySequence PitchSequence `json:"melody_sequence"`
}

// Index maps every file of one dataset to its melody sequence. It is built
// in one pass and replaced wholesale on rebuild, never mutated in place.
type Index struct {
	DatabaseRoot string       `json:"database_root"`
	Entries      []IndexEntry `json:"entries"`
}
