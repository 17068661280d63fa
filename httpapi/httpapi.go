// Package httpapi implements the HTTP front-end that exposes the scraping
// core over a small JSON API: origin checking, a latency header, and the
// untagged ScrapeResult codec, wired up with github.com/gorilla/mux the way
// the teacher wires its own handler.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/artyom/httpflags"
	"github.com/gorilla/mux"

	"github.com/Doist/boorusnap"
)

// Server holds everything a scrape request needs: the immutable
// configuration, a configured HTTP client, the result cache, and a logger.
type Server struct {
	Config *boorusnap.Configuration
	Client *http.Client
	Cache  *boorusnap.Cache[string, *boorusnap.ScrapeResult]
	Logger boorusnap.Logger
}

// NewRouter builds the mux.Router exposing srv's scrape endpoint(s) per §6.
func NewRouter(srv *Server) *mux.Router {
	r := mux.NewRouter()
	r.Use(latencyMiddleware)
	r.Use(srv.originCheckMiddleware)

	r.HandleFunc("/images/scrape", srv.handleScrapePOST).Methods(http.MethodPost)
	if srv.Config.EnableGetRequest {
		r.HandleFunc("/images/scrape", srv.handleScrapeGET).Methods(http.MethodGet)
	}
	return r
}

type scrapeRequest struct {
	URL string `json:"url"`
}

func (srv *Server) handleScrapePOST(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResult(w, boorusnap.ErrResultf("URL invalid"))
		return
	}
	srv.serve(w, r, req.URL)
}

// getQuery mirrors the teacher's own use of github.com/artyom/httpflags to
// fill a struct from request form/query values, generalized from the
// teacher's whole-options-struct use to a single required field here.
type getQuery struct {
	URL string `flag:"url"`
}

func (srv *Server) handleScrapeGET(w http.ResponseWriter, r *http.Request) {
	var q getQuery
	if err := httpflags.Parse(&q, r); err != nil {
		writeResult(w, boorusnap.ErrResultf("URL invalid"))
		return
	}
	srv.serve(w, r, q.URL)
}

func (srv *Server) serve(w http.ResponseWriter, r *http.Request, rawURL string) {
	if rawURL == "" {
		writeResult(w, boorusnap.ErrResultf("URL invalid"))
		return
	}
	result, err := srv.Cache.GetOrCompute(rawURL, func() (*boorusnap.ScrapeResult, error) {
		// Detached from the caller's cancellation: a scrape whose requester
		// disconnects still completes and populates the cache.
		return boorusnap.Scrape(context.WithoutCancel(r.Context()), srv.Client, srv.Config, rawURL)
	})
	if err != nil {
		if srv.Logger != nil {
			srv.Logger.Printf("scrape %q failed: %v", rawURL, err)
		}
		writeResult(w, boorusnap.ErrResultf("%v", err))
		return
	}
	writeResult(w, result)
}

func writeResult(w http.ResponseWriter, result *boorusnap.ScrapeResult) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

// latencyMiddleware adds an x-time-taken response header formatted as
// "{ms}ms". Since the header must be set before any byte of body is written,
// the downstream response is buffered and replayed once its total latency is
// known.
func latencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		buf := &bufferingResponseWriter{ResponseWriter: w, body: new(bytes.Buffer)}
		next.ServeHTTP(buf, r)
		elapsed := time.Since(start)
		w.Header().Set("x-time-taken", fmt.Sprintf("%dms", elapsed.Milliseconds()))
		if buf.status != 0 {
			w.WriteHeader(buf.status)
		}
		_, _ = w.Write(buf.body.Bytes())
	})
}

type bufferingResponseWriter struct {
	http.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (b *bufferingResponseWriter) Write(p []byte) (int, error) { return b.body.Write(p) }

func (b *bufferingResponseWriter) WriteHeader(status int) { b.status = status }

// originCheckMiddleware enforces the CORS-ish allow-list from §4.9/§6:
// a missing Origin header is allowed only when ALLOW_EMPTY_ORIGIN is set; a
// present Origin header is checked against ALLOWED_ORIGINS. A malformed
// Origin header (present but empty after trimming) is a 500, not a 404,
// since that indicates a misbehaving client rather than a disallowed one.
func (srv *Server) originCheckMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var originPtr *string
		if values, present := r.Header["Origin"]; present {
			if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
				http.Error(w, "malformed origin header", http.StatusInternalServerError)
				return
			}
			originPtr = &values[0]
		}
		if !srv.Config.IsAllowedOrigin(originPtr) {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
