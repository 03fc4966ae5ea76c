package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/matzehuels/waypoint/pkg/buildinfo"
	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/graph"
	"github.com/matzehuels/waypoint/pkg/pipeline"
	"github.com/matzehuels/waypoint/pkg/render"
)

// searchRequest is the body of /v1/search and /v1/render.
type searchRequest struct {
	Graph    json.RawMessage `json:"graph,omitempty"`
	EdgeList string          `json:"edge_list,omitempty"`
	pipeline.Query

	// Format selects the /v1/render output.
	Format string `json:"format,omitempty"`
}

type searchResponse struct {
	*pipeline.Outcome
	Cached    bool   `json:"cached"`
	RequestID string `json:"request_id"`
}

type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type healthBody struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, g, ok := s.decode(w, r)
	if !ok {
		return
	}

	out, cached, err := s.runner.Run(r.Context(), g, req.Query)
	if err != nil && !errors.Is(err, errors.ErrCodeDepthExhausted) {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Outcome:   out,
		Cached:    cached,
		RequestID: RequestID(r.Context()),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, g, ok := s.decode(w, r)
	if !ok {
		return
	}
	if req.Format == "" {
		req.Format = render.FormatSVG
	}

	var out *pipeline.Outcome
	if req.Start != "" || req.Goal != "" {
		var err error
		out, _, err = s.runner.Run(r.Context(), g, req.Query)
		if err != nil && !errors.Is(err, errors.ErrCodeDepthExhausted) {
			s.writeError(w, r, err)
			return
		}
	}

	data, _, err := s.runner.Render(r.Context(), g, out, req.Format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	contentType := "text/vnd.graphviz; charset=utf-8"
	if req.Format == render.FormatSVG {
		contentType = "image/svg+xml"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decode reads the request body and builds its graph. It writes the error
// response itself and reports false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (searchRequest, *graph.Graph, bool) {
	var req searchRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode request"))
		return req, nil, false
	}

	var (
		g   *graph.Graph
		err error
	)
	switch {
	case len(req.Graph) > 0 && req.EdgeList != "":
		err = errors.New(errors.ErrCodeInvalidInput, "give either graph or edge_list, not both")
	case len(req.Graph) > 0:
		g, err = graph.ReadJSON(strings.NewReader(string(req.Graph)))
	case req.EdgeList != "":
		g, err = graph.ReadEdgeList(strings.NewReader(req.EdgeList))
	default:
		err = errors.New(errors.ErrCodeInvalidInput, "request has no graph")
	}
	if err != nil {
		s.writeError(w, r, err)
		return req, nil, false
	}
	return req, g, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "error", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{
		Error:     errorDetail{Code: code, Message: errors.UserMessage(err)},
		RequestID: RequestID(r.Context()),
	})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeUnknownNode:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeMalformedInput, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeDepthExhausted:
		return http.StatusOK
	case errors.ErrCodeSearchAborted:
		if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
			return http.StatusServiceUnavailable
		}
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
