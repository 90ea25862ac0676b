package deploy

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/lo"
)

const (
	// DefaultProbeTimeout bounds a registry read.
	DefaultProbeTimeout = 10 * time.Second
	registryAPIVersion  = "1.0"
	maxRegistryBody     = 8 << 20
)

// ProbeResult is the outcome of one registry read.
type ProbeResult struct {
	Registration Registration
	// Versions lists every registered version of the target type.
	Versions []string
	// Err is a *ConnectivityError when Registration is RegistrationUnknown.
	Err error
}

// Prober reads the cluster's application-type registry.
type Prober interface {
	Probe(ctx context.Context, r Request, version string) ProbeResult
}

// HTTPProber queries the cluster's REST gateway,
// GET /ApplicationTypes/<type>?api-version=1.0.
type HTTPProber struct {
	// Timeout bounds the whole request; zero means DefaultProbeTimeout.
	Timeout time.Duration
	// BaseURL replaces the gateway URL derived from the request.
	BaseURL string
	// Client replaces the client built from the request's credentials.
	Client *http.Client
}

type applicationTypeList struct {
	Items []applicationTypeInfo `json:"Items"`
}

type applicationTypeInfo struct {
	Name    string `json:"Name"`
	Version string `json:"Version"`
}

// RegistryURL is the registry resource for the request's application type.
func (p *HTTPProber) RegistryURL(r Request) string {
	base := p.BaseURL
	if base == "" {
		base = Endpoint(r)
	}
	return fmt.Sprintf("%s/ApplicationTypes/%s?api-version=%s", base, url.PathEscape(r.ApplicationType), registryAPIVersion)
}

func (p *HTTPProber) Probe(ctx context.Context, r Request, version string) ProbeResult {
	u := p.RegistryURL(r)
	fail := func(err error) ProbeResult {
		return ProbeResult{Registration: RegistrationUnknown, Err: &ConnectivityError{URL: u, Err: err}}
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := p.Client
	if client == nil {
		c, err := registryClient(r)
		if err != nil {
			return fail(err)
		}
		client = c
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fail(err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	// The gateway answers 404 for a type it has never seen.
	if resp.StatusCode == http.StatusNotFound {
		return ProbeResult{Registration: RegistrationAbsent}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(fmt.Errorf("unexpected status %s", resp.Status))
	}

	var list applicationTypeList
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxRegistryBody)).Decode(&list); err != nil {
		return fail(fmt.Errorf("decode registry response: %w", err))
	}
	return classifyItems(list.Items, r.ApplicationType, version)
}

func classifyItems(items []applicationTypeInfo, typeName, version string) ProbeResult {
	versions := lo.FilterMap(items, func(it applicationTypeInfo, _ int) (string, bool) {
		return it.Version, it.Name == typeName
	})
	switch {
	case lo.Contains(versions, version):
		return ProbeResult{Registration: RegistrationSameVersion, Versions: versions}
	case len(versions) > 0:
		return ProbeResult{Registration: RegistrationOtherVersion, Versions: versions}
	default:
		return ProbeResult{Registration: RegistrationAbsent}
	}
}

// registryClient builds an HTTP client for the request. Secure requests
// present the client key pair and, like sfctl --no-verify, do not verify the
// gateway certificate.
func registryClient(r Request) (*http.Client, error) {
	if !r.Secure() {
		return &http.Client{}, nil
	}
	pair, err := tls.LoadX509KeyPair(r.ClientCert, r.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load client certificate: %w", err)
	}
	cfg := &tls.Config{
		Certificates:       []tls.Certificate{pair},
		InsecureSkipVerify: true, //nolint:gosec // matches --no-verify in the connect clause
	}
	if r.CAChain != "" {
		pem, err := os.ReadFile(r.CAChain)
		if err != nil {
			return nil, fmt.Errorf("read ca chain: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.New("ca chain contains no certificates")
		}
		cfg.RootCAs = pool
	}
	return &http.Client{Transport: &http.Transport{TLSClientConfig: cfg}}, nil
}

// isDowngrade reports whether target is lower than the highest registered
// version. Versions that are not semantic versions are ignored.
func isDowngrade(target string, registered []string) bool {
	t, err := semver.NewVersion(target)
	if err != nil {
		return false
	}
	return lo.SomeBy(registered, func(v string) bool {
		rv, err := semver.NewVersion(v)
		return err == nil && rv.GreaterThan(t)
	})
}
