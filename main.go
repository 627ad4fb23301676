package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/probekit/geoquorum/quorumlib"
	"github.com/probekit/geoquorum/sources"
)

const version = "0.1.0"

var (
	app = kingpin.New(
		"geoquorum",
		"Consensus-driven IP geolocation service")

	debug = app.Flag("debug", "Run in debug mode.").
		Short('d').
		Envar("GEOQUORUM_DEBUG").
		Bool()
	configFile = app.Arg("config-path", "Path to the config.").
			Required().
			File()
)

func init() {
	app.Version(version)
	log.SetFormatter(&log.TextFormatter{})
	log.SetLevel(log.WarnLevel)
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	conf, err := parseConfig(*configFile)
	if err != nil {
		log.Fatal(err.Error())
	}

	var allowlist quorumlib.Allowlist

	if conf.AllowlistPath != "" {
		loaded, err := quorumlib.LoadAllowlist(afero.NewOsFs(), conf.AllowlistPath)
		if err != nil {
			log.Fatal(err.Error())
		}

		allowlist = loaded
	}

	cache, err := quorumlib.NewMemoryCache(conf.GetCacheSize())
	if err != nil {
		log.Fatal(err.Error())
	}

	sourceList := make([]quorumlib.Source, 0, len(conf.Sources))

	for _, v := range conf.Sources {
		source, err := makeSource(v)
		if err != nil {
			log.WithField("source", v.Name).Fatal(err.Error())
		}

		sourceList = append(sourceList, source)
	}

	resolver, err := quorumlib.New(quorumlib.Options{
		Sources:        sourceList,
		Cache:          cache,
		CacheTTL:       conf.GetCacheTTL(),
		Allowlist:      allowlist,
		Logger:         stdLogger{},
		Metrics:        quorumlib.NewMetrics(prometheus.DefaultRegisterer),
		SourceTimeout:  conf.SourceTimeout.Duration,
		WorkerPoolSize: int(conf.WorkerPoolSize),
	})
	if err != nil {
		log.Fatal(err.Error())
	}

	defer resolver.Shutdown()

	server := &http.Server{
		Addr:    conf.GetListen(),
		Handler: makeServer(resolver, conf),
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		server.Shutdown(context.Background()) // nolint: errcheck
	}()

	log.WithField("listen", conf.GetListen()).Info("Start server.")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err.Error())
	}
}

func makeSource(conf configSource) (quorumlib.Source, error) {
	params := conf.GetSpecificParameters()

	switch conf.Name {
	case sources.NameIPInfo:
		return sources.NewIPInfo(makeHTTPClient(conf), params), nil
	case sources.NameMaxmind:
		return sources.NewMaxmind(params["city_db_path"], params["asn_db_path"])
	case sources.NameIP2Location:
		return sources.NewIP2Location(params["db_path"])
	case sources.NameIPStack:
		return sources.NewIPStack(makeHTTPClient(conf), params["auth_token"], true)
	case sources.NameDBIP:
		return sources.NewDBIP(params["db_path"])
	}

	return nil, fmt.Errorf("unknown source %s", conf.Name)
}

func makeHTTPClient(conf configSource) quorumlib.HTTPClient {
	return quorumlib.NewHTTPClient(
		&http.Client{Timeout: conf.GetHTTPTimeout()},
		"geoquorum/"+version,
		conf.GetRateLimitInterval(),
		conf.GetRateLimitBurst())
}
