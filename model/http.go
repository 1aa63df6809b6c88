package model

type ChangeTempoRequest struct {
	PathToOriginalMidi string `json:"path_to_original_midi"`

	// nil means "not provided", which defaults to 1.0
	Ratio *float64 `json:"ratio"`
}

type TransposeRequest struct {
	PathToOriginalMidi string `json:"path_to_original_midi"`
	DeltaInSemitones   int    `json:"delta_in_semitones"`
}

type SwingRequest struct {
	PathToOriginalMidi string `json:"path_to_original_midi"`
}

type HardMatchRequest struct {
	PathToMidiDatabase     string `json:"path_to_midi_database"`
	PathToQueryMidiSegment string `json:"path_to_query_midi_segment"`
}

type TransformResult struct {
	PathToOutputMidi string `json:"path_to_output_midi"`
}

type HardMatchResult struct {
	PathsToMatchedSong []string `json:"paths_to_matched_song"`
}

type OKResponse struct {
	OK     bool        `json:"ok"`
	Result interface{} `json:"result"`
}

type ErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details"`
}

type ErrorResponse struct {
	OK    bool      `json:"ok"`
	Error ErrorBody `json:"error"`
}
