package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"go.uber.org/zap"

	"github.com/jsphweid/melodex/index"
	"github.com/jsphweid/melodex/midi"
	"github.com/jsphweid/melodex/model"
)

func writeMelodyFile(t *testing.T, path string, keys ...uint8) {
	t.Helper()
	var track smf.Track
	for _, key := range keys {
		track = append(track,
			smf.Event{Delta: 0, Message: smf.Message(gomidi.NoteOn(0, key, 100))},
			smf.Event{Delta: 480, Message: smf.Message(gomidi.NoteOff(0, key))},
		)
	}
	track = append(track, smf.Event{Delta: 0, Message: smf.EOT})

	var s smf.SMF
	s.TimeFormat = smf.MetricTicks(480)
	s.Tracks = []smf.Track{track}
	assert.NoError(t, midi.WriteMidiFile(&s, path))
}

func postJSON(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	w := httptest.NewRecorder()
	NewRouter(zap.NewNop()).ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var raw map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	return raw
}

func TestChangeTempoEndpoint(t *testing.T) {
	t.Setenv("OUTPUT_PATH", t.TempDir())

	inPath := filepath.Join(t.TempDir(), "song.mid")
	writeMelodyFile(t, inPath, 60, 62, 64, 65)

	ratio := 2.0
	w := postJSON(t, "/v1/midi/change-tempo", model.ChangeTempoRequest{
		PathToOriginalMidi: inPath,
		Ratio:              &ratio,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	raw := decodeEnvelope(t, w)
	assert.Equal(t, true, raw["ok"])

	result := raw["result"].(map[string]interface{})
	outPath := result["path_to_output_midi"].(string)
	_, err := os.Stat(outPath)
	assert.NoError(t, err)
}

func TestChangeTempoEndpointRejectsBadRatio(t *testing.T) {
	inPath := filepath.Join(t.TempDir(), "song.mid")
	writeMelodyFile(t, inPath, 60, 62, 64, 65)

	ratio := -1.0
	w := postJSON(t, "/v1/midi/change-tempo", model.ChangeTempoRequest{
		PathToOriginalMidi: inPath,
		Ratio:              &ratio,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	raw := decodeEnvelope(t, w)
	assert.Equal(t, false, raw["ok"])
	errBody := raw["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_ARGUMENT", errBody["code"])
}

func TestTransposeEndpointMissingFile(t *testing.T) {
	w := postJSON(t, "/v1/midi/transpose", model.TransposeRequest{
		PathToOriginalMidi: filepath.Join(t.TempDir(), "missing.mid"),
		DeltaInSemitones:   3,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	errBody := decodeEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "FILE_NOT_FOUND", errBody["code"])
}

func TestSwingEndpointCorruptFile(t *testing.T) {
	t.Setenv("OUTPUT_PATH", t.TempDir())

	inPath := filepath.Join(t.TempDir(), "bad.mid")
	assert.NoError(t, os.WriteFile(inPath, []byte("not a midi"), 0666))

	w := postJSON(t, "/v1/midi/common-to-swing", model.SwingRequest{PathToOriginalMidi: inPath})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errBody := decodeEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "CORRUPT_FILE", errBody["code"])
}

func TestHardMatchEndpoint(t *testing.T) {
	root := t.TempDir()
	song1 := filepath.Join(root, "song1.mid")
	song2 := filepath.Join(root, "song2.mid")
	writeMelodyFile(t, song1, 60, 62, 64, 65)
	writeMelodyFile(t, song2, 60, 62, 64, 65, 67, 69)

	idx, sum := index.Build(root, []string{song1, song2}, zap.NewNop())
	assert.Equal(t, 2, sum.Indexed)
	assert.NoError(t, index.Save(idx, index.PathFor(root)))

	queryPath := filepath.Join(t.TempDir(), "query.mid")
	writeMelodyFile(t, queryPath, 64, 65)

	w := postJSON(t, "/v1/midi/retrieval/hard-match", model.HardMatchRequest{
		PathToMidiDatabase:     root,
		PathToQueryMidiSegment: queryPath,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	raw := decodeEnvelope(t, w)
	assert.Equal(t, true, raw["ok"])

	result := raw["result"].(map[string]interface{})
	matched := result["paths_to_matched_song"].([]interface{})
	assert.Len(t, matched, 2)
}

func TestHardMatchEndpointNoMatches(t *testing.T) {
	root := t.TempDir()
	song := filepath.Join(root, "song.mid")
	writeMelodyFile(t, song, 60, 62, 64, 65)

	idx, _ := index.Build(root, []string{song}, zap.NewNop())
	assert.NoError(t, index.Save(idx, index.PathFor(root)))

	queryPath := filepath.Join(t.TempDir(), "query.mid")
	writeMelodyFile(t, queryPath, 64, 66)

	w := postJSON(t, "/v1/midi/retrieval/hard-match", model.HardMatchRequest{
		PathToMidiDatabase:     root,
		PathToQueryMidiSegment: queryPath,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	result := decodeEnvelope(t, w)["result"].(map[string]interface{})
	assert.Empty(t, result["paths_to_matched_song"])
}

func TestHardMatchEndpointMissingDatabase(t *testing.T) {
	queryPath := filepath.Join(t.TempDir(), "query.mid")
	writeMelodyFile(t, queryPath, 64, 65)

	w := postJSON(t, "/v1/midi/retrieval/hard-match", model.HardMatchRequest{
		PathToMidiDatabase:     filepath.Join(t.TempDir(), "nope"),
		PathToQueryMidiSegment: queryPath,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEndpointRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/midi/transpose", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()
	NewRouter(zap.NewNop()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errBody := decodeEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_ARGUMENT", errBody["code"])
}
