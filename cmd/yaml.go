package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/deploy"
)

// requestFile is the YAML document given with --request. Every key is
// optional; flags and environment variables override it.
type requestFile struct {
	ApplicationID   string            `yaml:"application_id"`
	ApplicationType string            `yaml:"application_type"`
	ClusterEndpoint string            `yaml:"cluster_endpoint"`
	Manifest        string            `yaml:"manifest"`
	Workspace       string            `yaml:"workspace"`
	ClientKey       string            `yaml:"client_key"`
	ClientCert      string            `yaml:"client_cert"`
	CAChain         string            `yaml:"ca_chain"`
	Tool            string            `yaml:"tool"`
	Strategy        string            `yaml:"strategy"`
	ProbeTimeout    string            `yaml:"probe_timeout"`
	Parameters      map[string]string `yaml:"parameters"`
}

// loadRequestFile decodes path strictly: unknown keys are rejected so a typo
// does not silently drop a setting. An empty file is valid.
func loadRequestFile(path string) (*requestFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &deploy.ConfigError{Subject: path, Msg: "cannot read request file", Err: err}
	}
	var rf requestFile
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil && !errors.Is(err, io.EOF) {
		return nil, &deploy.ConfigError{Subject: path, Msg: "invalid request file", Err: err}
	}
	return &rf, nil
}

// settings maps the non-empty scalar keys onto flag names for viper.
func (rf *requestFile) settings() map[string]any {
	m := map[string]string{
		"app-id":        rf.ApplicationID,
		"app-type":      rf.ApplicationType,
		"endpoint":      rf.ClusterEndpoint,
		"manifest":      rf.Manifest,
		"workspace":     rf.Workspace,
		"client-key":    rf.ClientKey,
		"client-cert":   rf.ClientCert,
		"ca-chain":      rf.CAChain,
		"tool":          rf.Tool,
		"strategy":      rf.Strategy,
		"probe-timeout": rf.ProbeTimeout,
	}
	set := lo.OmitByValues(m, []string{""})
	return lo.MapValues(set, func(v string, _ string) any { return v })
}
