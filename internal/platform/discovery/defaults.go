// Package discovery resolves the in-network addresses runabout processes use
// to reach each other.
package discovery

import (
	"net"
	"strconv"
	"strings"
)

const (
	// ServiceBoard serves position queries over gRPC.
	ServiceBoard = "board"
	// ServiceCollector accepts OTLP traces over HTTP.
	ServiceCollector = "jaeger"
)

// Endpoint is the host and port convention for one service.
type Endpoint struct {
	Host string
	Port int
}

// Addr renders host:port, or "" for an incomplete endpoint.
func (e Endpoint) Addr() string {
	if e.Host == "" || e.Port <= 0 {
		return ""
	}
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

var endpoints = map[string]Endpoint{
	ServiceBoard:     {Host: "board", Port: 8095},
	ServiceCollector: {Host: "jaeger", Port: 4318},
}

// Lookup returns the endpoint convention for service.
func Lookup(service string) (Endpoint, bool) {
	e, ok := endpoints[strings.TrimSpace(service)]
	return e, ok
}

// ResolveAddr prefers explicit and falls back to the service convention.
func ResolveAddr(explicit, service string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	e, _ := Lookup(service)
	return e.Addr()
}

// CollectorURL is the default OTLP/HTTP endpoint.
func CollectorURL() string {
	return "http://" + endpoints[ServiceCollector].Addr()
}
