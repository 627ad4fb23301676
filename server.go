package main

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/probekit/geoquorum/quorumlib"
)

type apiHandler struct {
	resolver *quorumlib.Resolver
}

func (a apiHandler) handleIP(w http.ResponseWriter, req *http.Request) {
	ipAddr := net.ParseIP(chi.URLParam(req, "ip"))
	if ipAddr == nil {
		abort(w, http.StatusBadRequest, "Incorrect ip address")

		return
	}

	a.respond(w, req, ipAddr)
}

func (a apiHandler) handleSelf(w http.ResponseWriter, req *http.Request) {
	host := req.RemoteAddr

	// RealIP middleware strips the port, a direct connection keeps it.
	if splitHost, _, err := net.SplitHostPort(req.RemoteAddr); err == nil {
		host = splitHost
	}

	ipAddr := net.ParseIP(host)
	if ipAddr == nil {
		abort(w, http.StatusBadRequest, "Cannot detect your ip address")

		return
	}

	a.respond(w, req, ipAddr)
}

func (a apiHandler) handleResolve(w http.ResponseWriter, req *http.Request) {
	request := struct {
		Addresses []string `json:"addresses"`
	}{}

	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		abort(w, http.StatusBadRequest, "Cannot parse a request")

		return
	}

	ips := make([]net.IP, 0, len(request.Addresses))

	for _, v := range request.Addresses {
		ip := net.ParseIP(v)
		if ip == nil {
			abort(w, http.StatusBadRequest, "Incorrect ip address "+v)

			return
		}

		ips = append(ips, ip)
	}

	results, err := a.resolver.LookupAll(req.Context(), ips)
	if err != nil {
		abort(w, http.StatusInternalServerError, "Cannot resolve ip addresses")

		return
	}

	encodeJSON(w, struct {
		Results []quorumlib.BatchResult `json:"results"`
	}{
		Results: results,
	})
}

func (a apiHandler) respond(w http.ResponseWriter, req *http.Request, ipAddr net.IP) {
	resolved, err := a.resolver.Lookup(req.Context(), ipAddr)

	switch {
	case errors.Is(err, quorumlib.ErrVPNDetected):
		abort(w, http.StatusForbidden, err.Error())
	case errors.Is(err, quorumlib.ErrUnresolvable):
		abort(w, http.StatusNotFound, err.Error())
	case err != nil:
		abort(w, http.StatusInternalServerError, "Cannot resolve ip address")
	default:
		encodeJSON(w, struct {
			Result quorumlib.ConsensusResult `json:"result"`
		}{
			Result: resolved,
		})
	}
}

func makeServer(resolver *quorumlib.Resolver, conf *config) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RealIP)

	if conf.BasicAuthUser != "" {
		router.Use(basicAuth(conf.BasicAuthUser, conf.BasicAuthPassword))
	}

	handler := apiHandler{resolver: resolver}

	router.Get("/self", handler.handleSelf)
	router.Get("/ip/{ip}", handler.handleIP)
	router.Post("/resolve", handler.handleResolve)
	router.Mount("/metrics", promhttp.Handler())

	return router
}

func basicAuth(user, password string) func(http.Handler) http.Handler {
	userBytes := []byte(user)
	passwordBytes := []byte(password)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			reqUser, reqPassword, _ := req.BasicAuth()

			if subtle.ConstantTimeCompare(userBytes, []byte(reqUser))+
				subtle.ConstantTimeCompare(passwordBytes, []byte(reqPassword)) != 2 {
				w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
				http.Error(w, "Authentication is required", http.StatusUnauthorized)

				return
			}

			next.ServeHTTP(w, req)
		})
	}
}

func encodeJSON(w http.ResponseWriter, data interface{}) {
	encoder := json.NewEncoder(w)

	w.Header().Add("Content-Type", "application/json")
	encoder.SetEscapeHTML(false)
	encoder.Encode(data) // nolint: errcheck
}

func abort(w http.ResponseWriter, code int, message string) {
	msg, _ := json.Marshal(map[string]string{"error": message})
	http.Error(w, string(msg), code)
}
