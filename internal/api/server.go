// Package api is the HTTP edge of the watchlist service. It only
// parses, validates, and frames; the interesting behavior lives in
// [reelist.Service].
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/jharlow/reelist/internal/reelist"
	"github.com/jharlow/reelist/internal/serverutil"
)

type (
	Server struct {
		*http.Server

		svc *reelist.Service
	}

	ServerConfig struct {
		Port       int
		CorsHeader string
	}
)

func NewServer(config ServerConfig, svc *reelist.Service) *Server {
	r := serverutil.ErrRouter{Router: mux.NewRouter()}

	srvr := Server{
		svc: svc,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			Handler: handlers.CORS(
				handlers.AllowedOrigins([]string{config.CorsHeader}),
				handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
				handlers.AllowedHeaders([]string{"content-type"}),
			)(r),
		},
	}

	r.Use(serverutil.AccessLogMiddleware) // Log everything

	r.HandleFuncE("/api/users/{userID}/list", srvr.postListEntry).Methods(http.MethodPost)
	r.HandleFuncE("/api/users/{userID}/list", srvr.getListEntries).Methods(http.MethodGet)
	r.HandleFuncE("/api/users/{userID}/list/{contentID}", srvr.deleteListEntry).Methods(http.MethodDelete)

	return &srvr
}
