package deploy

import (
	"net"
	"strconv"
)

// Endpoint is the management gateway URL of the request's cluster.
func Endpoint(r Request) string {
	scheme := "http"
	if r.Secure() {
		scheme = "https"
	}
	return scheme + "://" + net.JoinHostPort(r.ClusterEndpoint, strconv.Itoa(GatewayPort))
}
