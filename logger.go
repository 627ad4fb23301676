package main

import (
	"net"

	log "github.com/sirupsen/logrus"

	"github.com/probekit/geoquorum/quorumlib"
)

type stdLogger struct{}

func (s stdLogger) LookupError(ip net.IP, source string, err error) {
	log.WithFields(log.Fields{
		"ip":     ip.String(),
		"source": source,
	}).WithError(err).Warn("Source has failed to resolve ip address.")
}

func (s stdLogger) CacheError(source string, err error) {
	log.WithFields(log.Fields{
		"source": source,
	}).WithError(err).Warn("Cache operation has failed.")
}

func (s stdLogger) ConsensusError(ip net.IP, candidates []quorumlib.SourcedRecord, err error) {
	log.WithFields(log.Fields{
		"ip":         ip.String(),
		"candidates": candidates,
	}).WithError(err).Error("Voting has produced no winner despite filtering.")
}
