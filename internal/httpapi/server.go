package httpapi

import (
	"net/http"
	"time"

	"hawaii-climate/internal/config"
)

func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           wrap(cfg, handler),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
