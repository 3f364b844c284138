package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"edachat/agent"
	"edachat/dataset"
	"edachat/export"
)

type sessionResponse struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
}

type datasetResponse struct {
	Name       string `json:"name"`
	Rows       int    `json:"rows"`
	Columns    int    `json:"columns"`
	Conclusion string `json:"conclusion"`
}

type questionRequest struct {
	Question string `json:"question"`
	X        string `json:"x,omitempty"`
	Y        string `json:"y,omitempty"`
}

type artifactResponse struct {
	Title     string `json:"title"`
	Tool      string `json:"tool"`
	PNGBase64 string `json:"png_base64"`
}

type answerResponse struct {
	Text      string             `json:"text"`
	Tool      string             `json:"tool,omitempty"`
	Artifacts []artifactResponse `json:"artifacts"`
}

type columnResponse struct {
	Name    string      `json:"name"`
	Dtype   string      `json:"dtype"`
	Count   int         `json:"count"`
	Missing int         `json:"missing"`
	Stats   [][2]string `json:"stats"`
}

type summaryResponse struct {
	Rows    int              `json:"rows"`
	Columns []columnResponse `json:"columns"`
	Text    string           `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) createSession(w http.ResponseWriter, _ *http.Request) {
	sess := agent.NewSession("")
	s.mu.Lock()
	s.sessions[sess.ID] = &entry{session: sess, lastUsed: sess.Created}
	s.mu.Unlock()

	s.log.Info("session created", zap.String("session", sess.ID))
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID, Created: sess.Created})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, errSessionNotFound(id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// uploadDataset accepts a multipart form with a "file" field or a raw CSV
// body. The optional "name" query parameter names a raw upload.
func (s *Server) uploadDataset(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	name, data, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts := s.cfg.Ingest
	opts.Name = name
	ds, err := dataset.Read(name, bytes.NewReader(data), opts)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, dataset.ErrUnsupportedFormat) {
			status = http.StatusUnsupportedMediaType
		}
		writeError(w, status, err)
		return
	}

	s.agent.LoadDataset(e.session, ds)
	last, _ := e.session.Memory().Last()
	writeJSON(w, http.StatusOK, datasetResponse{
		Name:       ds.Name,
		Rows:       ds.Rows(),
		Columns:    ds.NumColumns(),
		Conclusion: last,
	})
}

func readUpload(r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read body: %w", err)
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "upload.csv"
		}
		return name, data, nil
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}
	return header.Filename, data, nil
}

func (s *Server) askQuestion(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}

	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, errors.New("question is required"))
		return
	}

	var opts []agent.AskOption
	if req.X != "" || req.Y != "" {
		opts = append(opts, agent.WithAxes(req.X, req.Y))
	}
	ans, err := s.agent.AnswerQuestion(r.Context(), e.session, req.Question, opts...)
	if err != nil {
		s.log.Error("question failed", zap.String("session", e.session.ID), zap.Error(err))
		writeGatewayError(w, err)
		return
	}

	resp := answerResponse{Text: ans.Text, Artifacts: []artifactResponse{}}
	if ans.Directive.HasTool {
		resp.Tool = ans.Directive.Identifier
	}
	charts := make([]export.Chart, 0, len(ans.Artifacts))
	for _, a := range ans.Artifacts {
		resp.Artifacts = append(resp.Artifacts, artifactResponse{
			Title:     a.Title,
			Tool:      a.Tool.String(),
			PNGBase64: a.Base64(),
		})
		charts = append(charts, export.Chart{Title: a.Title, PNG: a.PNG})
	}

	e.mu.Lock()
	e.transcript = append(e.transcript, export.Entry{Question: req.Question, Answer: ans.Text, Charts: charts})
	e.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getMemory(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, e.session.Memory().Conclusions())
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	ds := e.session.Dataset()
	if ds == nil {
		writeError(w, http.StatusConflict, errors.New("no dataset loaded"))
		return
	}

	sum := dataset.Summarize(ds)
	resp := summaryResponse{Rows: sum.Rows, Text: sum.String()}
	for _, c := range sum.Columns {
		resp.Columns = append(resp.Columns, columnResponse{
			Name:    c.Name,
			Dtype:   c.Dtype,
			Count:   c.Count,
			Missing: c.Missing,
			Stats:   c.Stats(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}

	t := export.Transcript{Created: time.Now()}
	if ds := e.session.Dataset(); ds != nil {
		t.Dataset = ds.Name
	}
	e.mu.Lock()
	t.Entries = append([]export.Entry(nil), e.transcript...)
	e.mu.Unlock()

	pdf, err := s.exporter.ExportTranscript(t)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	id := chi.URLParam(r, "id")
	e, ok := s.lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, errSessionNotFound(id))
	}
	return e, ok
}

func errSessionNotFound(id string) error {
	return fmt.Errorf("session %q not found", id)
}

// writeGatewayError maps remote model failures to 502 with their kind.
func writeGatewayError(w http.ResponseWriter, err error) {
	var gwErr *agent.GatewayError
	if errors.As(err, &gwErr) {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), Kind: gwErr.Kind.String()})
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing useful to do on failure.
	_ = json.NewEncoder(w).Encode(v)
}
