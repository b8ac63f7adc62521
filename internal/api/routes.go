package api

import (
	"net/http"

	"github.com/scribe-works/scribe/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Documents.Handler().Routes(),
		domain.Runs.Handler().Routes(),
	)
}
