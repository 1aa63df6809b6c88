package cmd

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jsphweid/melodex/constants"
	"github.com/jsphweid/melodex/index"
	"github.com/jsphweid/melodex/logger"
	"github.com/jsphweid/melodex/melody"
	"github.com/jsphweid/melodex/midi"
	"github.com/jsphweid/melodex/model"
	"github.com/jsphweid/melodex/search"
	"github.com/jsphweid/melodex/transform"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the transform and retrieval HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New()
		defer log.Sync()

		handler := cors.Default().Handler(NewRouter(log))
		addr := ":" + constants.GetPort()
		log.Info("listening", zap.String("addr", addr))
		return http.ListenAndServe(addr, handler)
	},
}

// NewRouter wires every endpoint. Handlers hold no state beyond the logger:
// each request is one atomic core call over its own files.
func NewRouter(log *zap.Logger) *mux.Router {
	s := &server{log: log}
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/v1/midi/change-tempo", s.handleChangeTempo).Methods("POST")
	router.HandleFunc("/v1/midi/transpose", s.handleTranspose).Methods("POST")
	router.HandleFunc("/v1/midi/common-to-swing", s.handleSwing).Methods("POST")
	router.HandleFunc("/v1/midi/retrieval/hard-match", s.handleHardMatch).Methods("POST")
	return router
}

type server struct {
	log *zap.Logger
}

func (s *server) handleChangeTempo(w http.ResponseWriter, r *http.Request) {
	var req model.ChangeTempoRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	ratio := 1.0
	if req.Ratio != nil {
		ratio = *req.Ratio
	}
	out, err := transform.ChangeTempoFile(req.PathToOriginalMidi, ratio)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeOK(w, model.TransformResult{PathToOutputMidi: out})
}

func (s *server) handleTranspose(w http.ResponseWriter, r *http.Request) {
	var req model.TransposeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	out, err := transform.TransposeFile(req.PathToOriginalMidi, req.DeltaInSemitones)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeOK(w, model.TransformResult{PathToOutputMidi: out})
}

func (s *server) handleSwing(w http.ResponseWriter, r *http.Request) {
	var req model.SwingRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	out, err := transform.SwingWarpFile(req.PathToOriginalMidi)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeOK(w, model.TransformResult{PathToOutputMidi: out})
}

func (s *server) handleHardMatch(w http.ResponseWriter, r *http.Request) {
	var req model.HardMatchRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if info, err := os.Stat(req.PathToMidiDatabase); err != nil || !info.IsDir() {
		s.writeError(w, errors.Wrapf(model.ErrNotFound,
			"database directory %v", req.PathToMidiDatabase))
		return
	}
	idx, err := index.Load(index.PathFor(req.PathToMidiDatabase))
	if err != nil {
		s.writeError(w, err)
		return
	}
	q, err := midi.ReadMidiFile(req.PathToQueryMidiSegment)
	if err != nil {
		s.writeError(w, err)
		return
	}

	query := melody.QuerySequence(q, s.log)
	s.writeOK(w, model.HardMatchResult{PathsToMatchedSong: search.HardMatch(idx, query)})
}

func (s *server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorBody{
				Code:    "INVALID_ARGUMENT",
				Message: "invalid request payload",
				Details: map[string]interface{}{"error": err.Error()},
			},
		})
		return false
	}
	return true
}

func (s *server) writeOK(w http.ResponseWriter, result interface{}) {
	s.writeJSON(w, http.StatusOK, model.OKResponse{OK: true, Result: result})
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	code, status := "INTERNAL_ERROR", http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrNotFound):
		code, status = "FILE_NOT_FOUND", http.StatusNotFound
	case errors.Is(err, model.ErrInvalidArgument):
		code, status = "INVALID_ARGUMENT", http.StatusBadRequest
	case errors.Is(err, model.ErrCorrupt):
		code, status = "CORRUPT_FILE", http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, status, model.ErrorResponse{
		Error: model.ErrorBody{
			Code:    code,
			Message: err.Error(),
			Details: map[string]interface{}{},
		},
	})
}

func (s *server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("encoding response", zap.Error(err))
	}
}
