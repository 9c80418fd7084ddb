package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/go-job-core/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-job-core/internal/ports"
)

// ConfigHandler exposes configuration diagnostics. Only provider ids and key
// names are returned.
type ConfigHandler struct {
	diagnostics ports.ConfigurationDiagnostics
}

// NewConfigHandler creates a ConfigHandler.
func NewConfigHandler(diagnostics ports.ConfigurationDiagnostics) *ConfigHandler {
	return &ConfigHandler{diagnostics: diagnostics}
}

// Describe handles GET /api/v1/config.
func (h *ConfigHandler) Describe(w http.ResponseWriter, r *http.Request) {
	providers, err := h.diagnostics.ProviderList()
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	keys, err := h.diagnostics.Keys()
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	resp := dto.ConfigResponse{Providers: providers, Keys: keys}
	if resp.Providers == nil {
		resp.Providers = []string{}
	}
	if resp.Keys == nil {
		resp.Keys = []string{}
	}
	writeJSON(w, r, http.StatusOK, resp)
}
