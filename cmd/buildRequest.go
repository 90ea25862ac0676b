package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/deploy"
)

// buildRequest assembles the deployment request from the resolved
// configuration. Without --workspace the Jenkins layout
// <build-home>/workspace/<project> is used.
func buildRequest() deploy.Request {
	workspace := cfgWorkspace
	if workspace == "" {
		workspace = deploy.WorkspaceFromEnv(cfgBuildHome, cfgProject)
	}
	return deploy.Request{
		ApplicationID:   strings.TrimSpace(cfgAppID),
		ApplicationType: strings.TrimSpace(cfgAppType),
		ClusterEndpoint: strings.TrimSpace(cfgEndpoint),
		ManifestPath:    strings.TrimSpace(cfgManifest),
		WorkspaceRoot:   workspace,
		ClientKey:       cfgClientKey,
		ClientCert:      cfgClientCert,
		CAChain:         cfgCAChain,
		Parameters:      cfgParams,
		Tool:            cfgTool,
	}
}

// parseParams turns key=value pairs into a map. Later pairs win.
func parseParams(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, &deploy.ConfigError{Subject: "param", Msg: fmt.Sprintf("%q must be formatted as key=value", p)}
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

// newSynthesizer builds the synthesizer for the configured strategy.
func newSynthesizer() (*deploy.Synthesizer, error) {
	strategy, err := deploy.ParseStrategy(cfgStrategy)
	if err != nil {
		return nil, err
	}
	s := &deploy.Synthesizer{Strategy: strategy}
	if strategy == deploy.StrategyProbe {
		s.Prober = newProberFunc(cfgProbeTimeout)
	}
	return s, nil
}

// synthesize builds the request and its plan.
func synthesize(ctx context.Context) (*deploy.Plan, deploy.Request, error) {
	req := buildRequest()
	s, err := newSynthesizer()
	if err != nil {
		return nil, req, err
	}
	p, err := s.Synthesize(ctx, req)
	if err != nil {
		return nil, req, err
	}
	return p, req, nil
}
