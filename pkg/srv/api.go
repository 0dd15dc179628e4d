/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// go-inp API
//
// RESTful APIs to decode MAME INP recordings
//
//	Schemes: http
//	Host: localhost:8004
//	Version: 1.0.0
//
//	Consumes:
//	- application/octet-stream
//
//	Produces:
//	- application/json
//
// swagger:meta
package srv

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/go-openapi/loads"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jinr.ru/greenlab/go-inp/pkg/config"
	"jinr.ru/greenlab/go-inp/pkg/inp"
	"jinr.ru/greenlab/go-inp/pkg/log"
	"jinr.ru/greenlab/go-inp/pkg/metrics"
	"jinr.ru/greenlab/go-inp/pkg/refdb"
	"jinr.ru/greenlab/go-inp/pkg/replay"
)

const (
	shutdownTimeout = 5 * time.Second
)

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	source   refdb.Source
	logger   *log.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	swagger  *loads.Document
}

// NewApiServer creates the API server. src is shared by all requests and
// is not closed by the server.
func NewApiServer(ctx context.Context, cfg *config.Config, src refdb.Source, logger *log.Logger) (*ApiServer, error) {
	if logger == nil {
		logger = log.Default()
	}
	logger.Info("Initializing API server with address: %s", cfg.ApiAddr())

	swagger, err := loadSwagger()
	if err != nil {
		return nil, err
	}
	registry := prometheus.NewRegistry()
	s := &ApiServer{
		Context:  ctx,
		Config:   cfg,
		source:   src,
		logger:   logger,
		registry: registry,
		metrics:  metrics.NewMetrics(registry),
		swagger:  swagger,
	}
	s.configureRouter()
	return s, nil
}

// Handler is the router wrapped with access logging and panic recovery
func (s *ApiServer) Handler() http.Handler {
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(s.logger),
		handlers.PrintRecoveryStack(true),
	)
	return handlers.CombinedLoggingHandler(s.logger.Writer(), recovery(s.Router))
}

// Run serves the API until the context is done
func (s *ApiServer) Run() error {
	s.logger.Info("Starting API server: address: %s", s.ApiAddr())
	httpServer := &http.Server{
		Handler: s.Handler(),
		Addr:    s.ApiAddr(),
	}
	go func() {
		<-s.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		httpServer.Shutdown(ctx)
	}()
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.Use(s.withMetrics)
	// swagger:operation GET /api/machines machines getMachines
	subRouter.HandleFunc("/machines", s.handleMachines()).Methods("GET")
	// swagger:operation GET /api/machines/{machine}/ports machines getPorts
	subRouter.HandleFunc("/machines/{machine}/ports", s.handlePorts()).Methods("GET")
	// swagger:operation POST /api/header replay postHeader
	subRouter.HandleFunc("/header", s.handleHeader()).Methods("POST")
	// swagger:operation POST /api/decode replay postDecode
	subRouter.HandleFunc("/decode", s.handleDecode()).Methods("POST")

	s.Router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods("GET")
	s.Router.HandleFunc(SwaggerPath, s.handleSwagger()).Methods("GET")
	s.Router.PathPrefix("/" + DocsPath).Handler(s.docsHandler())
}

// withMetrics records every API request by route template
func (s *ApiServer) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tpl
			}
		}
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.metrics.RecordHTTPRequest(r.Method, endpoint, strconv.Itoa(m.Code), m.Duration.Seconds())
	})
}

func (s *ApiServer) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Error while writing response: %s", err)
	}
}

func (s *ApiServer) writeError(w http.ResponseWriter, err error) {
	status, errorType := classify(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("%s", err)
	} else {
		s.logger.Debug("Request failed: %s: %s", errorType, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResp{Code: status, Message: err.Error()})
}

// upload limits the request body and counts how much of it was read
func (s *ApiServer) upload(w http.ResponseWriter, r *http.Request) *countingReader {
	return &countingReader{ReadCloser: http.MaxBytesReader(w, r.Body, s.MaxUploadSize)}
}

type countingReader struct {
	io.ReadCloser
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.ReadCloser.Read(p)
	c.n += int64(n)
	return n, err
}

func (s *ApiServer) handleMachines() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("Handling machines request")
		machines, err := s.source.Machines()
		if err != nil {
			s.writeError(w, err)
			return
		}
		if machines == nil {
			machines = []string{}
		}
		s.writeJSON(w, machines)
	}
}

func (s *ApiServer) handlePorts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		s.logger.Debug("Handling ports request: machine: %s", vars["machine"])
		ports, err := replay.ListPorts(s.source, vars["machine"])
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, ports)
	}
}

func (s *ApiServer) handleHeader() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("Handling header request")
		body := s.upload(w, r)
		defer body.Close()
		header, _, err := inp.ReadHeader(body)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, header)
	}
}

// parseDecodeQuery reads ports=0,1&skip=N&raw=true, defaults come from config
func (s *ApiServer) parseDecodeQuery(r *http.Request) (replay.Options, error) {
	opts := replay.Options{
		Ports:     s.Ports,
		SkipBytes: s.SkipBytes,
		Logger:    s.logger,
	}
	query := r.URL.Query()
	if value := query.Get("ports"); value != "" {
		opts.Ports = nil
		for _, item := range strings.Split(value, ",") {
			port, err := strconv.Atoi(strings.TrimSpace(item))
			if err != nil {
				return opts, ErrBadQuery{Param: "ports", What: err.Error()}
			}
			opts.Ports = append(opts.Ports, port)
		}
	}
	if value := query.Get("skip"); value != "" {
		skip, err := strconv.Atoi(value)
		if err != nil || skip < 0 {
			return opts, ErrBadQuery{Param: "skip", What: "must be a non negative integer"}
		}
		opts.SkipBytes = skip
	}
	if value := query.Get("raw"); value != "" {
		raw, err := strconv.ParseBool(value)
		if err != nil {
			return opts, ErrBadQuery{Param: "raw", What: err.Error()}
		}
		opts.Raw = raw
	}
	return opts, nil
}

func (s *ApiServer) handleDecode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := s.parseDecodeQuery(r)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.logger.Debug("Handling decode request: ports: %v skip: %d raw: %t", opts.Ports, opts.SkipBytes, opts.Raw)

		start := time.Now()
		body := s.upload(w, r)
		result, err := replay.Decode(body, s.source, opts)
		s.metrics.RecordUpload(body.n)
		if err != nil {
			status, errorType := classify(err)
			s.metrics.RecordDecodeError(errorType)
			// frames decoded before a payload error are returned with
			// termination "error", a refused upload is not a replay
			if result == nil || status == http.StatusRequestEntityTooLarge {
				s.writeError(w, err)
				return
			}
			s.logger.Warning("Returning %d frames of a failed replay: %s", len(result.Frames), err)
		}
		s.metrics.RecordDecode(string(result.Termination), len(result.Frames), time.Since(start).Seconds())
		s.writeJSON(w, result)
	}
}
