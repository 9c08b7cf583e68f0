// Package api — configuration endpoint.
package api

import (
	"net/http"
	"strings"
)

// ConfigResponse is the JSON payload returned by GET /api/v1/config.
// The DART API key is masked; only enough is shown to tell which key is live.
type ConfigResponse struct {
	DARTKeySet      bool   `json:"dart_key_set"`
	DARTKeyHint     string `json:"dart_key_hint,omitempty"`
	DARTBaseURL     string `json:"dart_base_url"`
	ReportCode      string `json:"report_code"`
	DefaultYear     int    `json:"default_year"`
	DefaultIndustry string `json:"default_industry"`
	SampleMode      bool   `json:"sample_mode"`
}

// handleGetConfig returns the running configuration with secrets masked.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			DARTKeySet:      s.cfg.DART.APIKey != "" && s.cfg.DART.APIKey != "sample",
			DARTKeyHint:     maskKey(s.cfg.DART.APIKey),
			DARTBaseURL:     s.cfg.DART.BaseURL,
			ReportCode:      s.cfg.DART.ReportCode,
			DefaultYear:     s.cfg.Analysis.DefaultYear,
			DefaultIndustry: s.cfg.Analysis.DefaultIndustry,
			SampleMode:      s.agg.DART().SampleMode(),
		},
	})
}

// maskKey keeps the first four characters of a key and hides the rest.
func maskKey(key string) string {
	if key == "" || key == "sample" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-4)
}
