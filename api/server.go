// Copyright 2025 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package api exposes the deployment pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Kanishk-tiwari-045/smart-contract-generator/deployer"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/pipeline"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/source"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

// Config contains the HTTP settings.
type Config struct {
	ListenAddr  string
	CorsOrigins []string // allowed browser origins, credentials included
	MaxBodySize int64    // request body limit in bytes
	Dev         bool     // include the error chain in failure responses
}

// DefaultConfig serves on localhost for a frontend on port 3000.
var DefaultConfig = Config{
	ListenAddr:  "127.0.0.1:5000",
	CorsOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
	MaxBodySize: 10 * 1024 * 1024,
}

// Backend runs deployments for the server.
type Backend interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
	Probe(ctx context.Context) (uint64, error)
}

// Server handles deployment requests.
type Server struct {
	backend Backend
	config  Config
	handler http.Handler
}

// NewServer creates the HTTP handler stack in front of backend.
func NewServer(backend Backend, config Config) *Server {
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = DefaultConfig.MaxBodySize
	}
	s := &Server{backend: backend, config: config}

	router := httprouter.New()
	router.POST("/", s.handleDeploy)
	router.GET("/health", s.handleHealth)
	s.handler = newCorsHandler(router, config.CorsOrigins)
	return s
}

// newCorsHandler wraps srv with the CORS policy of allowedOrigins.
func newCorsHandler(srv http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		return srv
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           600,
	})
	return c.Handler(srv)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return err
	}
	timeouts := rpc.DefaultHTTPTimeouts
	srv := &http.Server{
		Handler:           s,
		ReadTimeout:       timeouts.ReadTimeout,
		ReadHeaderTimeout: timeouts.ReadHeaderTimeout,
		IdleTimeout:       timeouts.IdleTimeout,
		// Deployments wait for receipts, no write timeout.
	}
	log.Info("HTTP server started", "endpoint", listener.Addr(), "cors", s.config.CorsOrigins)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("HTTP server stopping", "endpoint", listener.Addr())
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// deployRequest is the body of POST /.
type deployRequest struct {
	Code         string                 `json:"code"`
	ContractName string                 `json:"contractName,omitempty"`
	Args         map[string]interface{} `json:"args,omitempty"`
}

type deployResponse struct {
	Message          string          `json:"message"`
	DeployedContract string          `json:"deployedContract"`
	ContractName     string          `json:"contractName"`
	ABI              json.RawMessage `json:"abi"`
	TransactionHash  string          `json:"transactionHash"`
	GasUsed          uint64          `json:"gasUsed"`
	Warnings         []string        `json:"warnings,omitempty"`
}

type errorResponse struct {
	Message string   `json:"message"`
	Error   string   `json:"error,omitempty"`
	Stack   []string `json:"stack,omitempty"`
}

func (s *Server) handleDeploy(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodySize)

	var req deployRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Message: "Request body too large", Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Valid Solidity code string is required", Error: err.Error()})
		return
	}
	if req.Code == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Valid Solidity code string is required"})
		return
	}
	log.Info("Received deployment request", "length", len(req.Code), "remote", r.RemoteAddr)

	res, err := s.backend.Run(r.Context(), pipeline.Request{
		Source:       req.Code,
		ContractName: req.ContractName,
		Args:         deployer.Overrides(req.Args),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := deployResponse{
		Message:          "Contract deployed successfully!",
		DeployedContract: res.Receipt.ContractAddress.Hex(),
		ContractName:     res.Name,
		ABI:              res.Artifact.ABI,
		TransactionHash:  res.Receipt.TxHash.Hex(),
		GasUsed:          res.Receipt.GasUsed,
	}
	for _, d := range res.Warnings {
		resp.Warnings = append(resp.Warnings, d.Text())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, message := http.StatusInternalServerError, "Failed to deploy the contract"
	switch {
	case errors.Is(err, source.ErrNoContractName), errors.Is(err, source.ErrAmbiguousContractName):
		status, message = http.StatusBadRequest, "Failed to extract contract name from code"
	case errors.Is(err, source.ErrInvalidSourceFormat):
		status, message = http.StatusBadRequest, "Invalid Solidity source"
	case errors.Is(err, deployer.ErrInvalidArgument):
		status, message = http.StatusBadRequest, "Invalid constructor arguments"
	}
	if status == http.StatusInternalServerError {
		log.Error("Deployment request failed", "err", err)
	} else {
		log.Debug("Rejected deployment request", "err", err)
	}
	resp := errorResponse{Message: message, Error: err.Error()}
	if s.config.Dev {
		resp.Stack = errorChain(err)
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	head, err := s.backend.Probe(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "block": head})
}

// errorChain lists the type and message of every wrapped error of err.
func errorChain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, fmt.Sprintf("%T: %v", err, err))
		switch x := err.(type) {
		case interface{ Unwrap() error }:
			err = x.Unwrap()
		case interface{ Unwrap() []error }:
			errs := x.Unwrap()
			if len(errs) == 0 {
				return chain
			}
			err = errs[len(errs)-1]
		default:
			return chain
		}
	}
	return chain
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("Failed to write response", "err", err)
	}
}
