package cmd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/deploy"
	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/executor"
)

// yamlReport is the deployment report written with deploy --out.
type yamlReport struct {
	Application  string     `yaml:"application"`
	Type         string     `yaml:"type"`
	Version      string     `yaml:"version,omitempty"`
	Endpoint     string     `yaml:"endpoint"`
	Secure       bool       `yaml:"secure"`
	Host         string     `yaml:"host,omitempty"`
	Generated    string     `yaml:"generated"`
	Strategy     string     `yaml:"strategy,omitempty"`
	Mode         string     `yaml:"mode,omitempty"`
	Registration string     `yaml:"registration,omitempty"`
	Steps        []yamlStep `yaml:"steps,omitempty"`
	Command      string     `yaml:"command,omitempty"`
	ExitCode     int        `yaml:"exit_code"`
	Duration     string     `yaml:"duration,omitempty"`
	Interrupted  bool       `yaml:"interrupted,omitempty"`
	Error        string     `yaml:"error,omitempty"`
}

// yamlStep records one clause of the plan.
type yamlStep struct {
	Action  string `yaml:"action"`
	Command string `yaml:"command"`
	Soft    bool   `yaml:"soft,omitempty"`
}

// newYAMLReport seeds a report with the request and a generated timestamp.
func newYAMLReport(req deploy.Request, host string) *yamlReport {
	r := &yamlReport{
		Application: req.ApplicationID,
		Type:        req.ApplicationType,
		Secure:      req.Secure(),
		Host:        host,
		Generated:   time.Now().Format(time.RFC3339),
	}
	if req.ClusterEndpoint != "" {
		r.Endpoint = deploy.Endpoint(req)
	}
	return r
}

// setPlan records the synthesized plan.
func (r *yamlReport) setPlan(p *deploy.Plan) {
	r.Version = p.Version
	r.Strategy = p.Strategy.String()
	r.Mode = p.ModeLabel()
	if p.Strategy == deploy.StrategyProbe {
		r.Registration = p.Registration.String()
	}
	r.Command = p.String()
	r.Steps = make([]yamlStep, len(p.Clauses))
	for i, c := range p.Clauses {
		r.Steps[i] = yamlStep{Action: c.Action.String(), Command: c.Text, Soft: c.Soft}
	}
}

// setResult records how the run ended; err may come from synthesis or
// execution.
func (r *yamlReport) setResult(res executor.Result, err error) {
	if res.Duration > 0 {
		r.Duration = res.Duration.Round(time.Millisecond).String()
	}
	r.ExitCode = res.ExitCode
	if err == nil {
		return
	}
	r.Error = err.Error()
	var xe *executor.ExecutionError
	if errors.As(err, &xe) {
		r.ExitCode = xe.ExitCode
		r.Interrupted = xe.Interrupted
	} else if r.ExitCode == 0 {
		r.ExitCode = -1
	}
}

// writeYAMLReport serializes the report to YAML with indentation and writes to
// the provided writer in a buffered manner.
func writeYAMLReport(w io.Writer, r *yamlReport) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		_ = enc.Close()
		return err
	}
	_ = enc.Close()
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(buf.Bytes()); err != nil {
		return err
	}
	return bw.Flush()
}

// writeReportFile creates path, and its directory if needed, and writes r.
func writeReportFile(path string, r *yamlReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeYAMLReport(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
