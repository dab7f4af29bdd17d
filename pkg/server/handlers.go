package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/ldraw/pkg/buildinfo"
	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
	"github.com/matzehuels/ldraw/pkg/ldraw/section"
	"github.com/matzehuels/ldraw/pkg/pipeline"
	"github.com/matzehuels/ldraw/pkg/scene"
)

var contentTypes = map[string]string{
	pipeline.FormatLDR: "text/plain; charset=utf-8",
	pipeline.FormatBDR: "application/octet-stream",
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
	pipeline.FormatPDF: "application/pdf",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

type keywordInfo struct {
	Name      string `json:"name"`
	Tag       string `json:"tag"`
	Container bool   `json:"container"`
}

func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	all := keyword.All()
	out := make([]keywordInfo, len(all))
	for i, k := range all {
		out[i] = keywordInfo{
			Name:      k.String(),
			Tag:       fmt.Sprintf("0x%08x", k.Tag()),
			Container: k.IsContainer(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatLDR
	}
	sf, err := sceneFormat(q.Get("scene"), r.Header.Get("Content-Type"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	pretty, err := boolParam(q.Get("pretty"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	detailed, err := boolParam(q.Get("detailed"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Scene:       body,
		SceneFormat: sf,
		Formats:     []string{format},
		Pretty:      pretty,
		Detailed:    detailed,
		Logger:      s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	cacheState := "miss"
	if res.CacheInfo.RenderHit {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Scene-Hash", res.SceneHash)
	w.Header().Set("X-Cache", cacheState)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

type sectionView struct {
	Keyword  string        `json:"keyword"`
	Offset   int           `json:"offset"`
	Size     int           `json:"size"`
	Value    string        `json:"value,omitempty"`
	Children []sectionView `json:"children,omitempty"`
}

func viewOf(secs []section.Section) []sectionView {
	out := make([]sectionView, len(secs))
	for i, sec := range secs {
		v := sectionView{
			Keyword: sec.Keyword.String(),
			Offset:  sec.Offset,
			Size:    len(sec.Payload),
		}
		if sec.Keyword.IsContainer() {
			v.Children = viewOf(sec.Children)
		} else {
			v.Value = sec.Describe()
		}
		out[i] = v
	}
	return out
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	secs, err := section.Parse(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(secs))
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var mbe *http.MaxBytesError
		if stderrors.As(err, &mbe) {
			return nil, errors.New(errors.ErrCodeTooLarge, "request body exceeds %d bytes", mbe.Limit)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read request body")
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty request body")
	}
	return data, nil
}

// genericTypes are Content-Type values sent by clients that do not know
// the body syntax. They fall back to TOML.
var genericTypes = map[string]bool{
	"":                                  true,
	"text/plain":                        true,
	"application/octet-stream":          true,
	"application/x-www-form-urlencoded": true,
}

func sceneFormat(param, contentType string) (scene.Format, error) {
	if param != "" {
		return scene.ParseFormat(param)
	}
	mt := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if genericTypes[mt] {
		return scene.FormatTOML, nil
	}
	return scene.ParseFormat(mt)
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid boolean %q", v)
	}
	return b, nil
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidScene,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath, errors.ErrCodeConversion:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	case errors.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorBody{Code: code, Error: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
