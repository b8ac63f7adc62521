package main

import (
	"encoding/json"
	"net/http"

	"github.com/scribe-works/scribe/internal/api"
	"github.com/scribe-works/scribe/internal/config"
	"github.com/scribe-works/scribe/internal/infrastructure"
	"github.com/scribe-works/scribe/internal/runs"
	"github.com/scribe-works/scribe/pkg/lifecycle"
	"github.com/scribe-works/scribe/pkg/module"
)

type Modules struct {
	API     *module.Module
	Sweeper *runs.Sweeper
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, sweeper, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API:     apiModule,
		Sweeper: sweeper,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func (m *Modules) Start(lc *lifecycle.Coordinator) {
	m.Sweeper.Start(lc)
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) (*module.Router, error) {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	// served outside the API module so the spec needs no owner header
	specHandler, err := api.SpecHandler(cfg)
	if err != nil {
		return nil, err
	}
	router.HandleNative("GET /openapi.json", specHandler)

	return router, nil
}
