package deploy

import (
	"context"

	"go.uber.org/zap"

	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/logger"
)

// Synthesizer builds deployment plans. The zero value uses StrategyRuntime.
// A Synthesizer holds no per-build state and may be shared.
type Synthesizer struct {
	Strategy Strategy
	// Prober is used by StrategyProbe; nil means an HTTPProber with the
	// default timeout.
	Prober Prober
}

// Synthesize validates the request, reads the target version from its
// manifest and renders the plan. Request and manifest problems are returned
// as *ConfigError and no plan is produced. A failed registry probe is not an
// error: it is logged and the plan falls back to a clean deploy.
func (s *Synthesizer) Synthesize(ctx context.Context, r Request) (*Plan, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	version, err := ReadManifestVersion(r.WorkspaceRoot, r.ManifestPath)
	if err != nil {
		return nil, err
	}
	fields := []zap.Field{
		zap.String("app", r.ApplicationID),
		zap.String("type", r.ApplicationType),
		zap.String("version", version),
		zap.Bool("secure", r.Secure()),
		zap.Stringer("strategy", s.Strategy),
	}

	switch s.Strategy {
	case StrategyRuntime:
		logger.Info("deployment mode deferred to plan execution", fields...)
		return RenderRuntime(r, version), nil
	case StrategyProbe:
		return s.probeAndRender(ctx, r, version, fields)
	default:
		return nil, &ConfigError{Subject: "strategy", Msg: "unsupported strategy " + s.Strategy.String()}
	}
}

func (s *Synthesizer) probeAndRender(ctx context.Context, r Request, version string, fields []zap.Field) (*Plan, error) {
	prober := s.Prober
	if prober == nil {
		prober = &HTTPProber{}
	}
	res := prober.Probe(ctx, r, version)
	mode := Classify(res.Registration)
	fields = append(fields,
		zap.Stringer("registration", res.Registration),
		zap.Stringer("mode", mode),
		zap.Strings("registered_versions", res.Versions),
	)

	switch res.Registration {
	case RegistrationUnknown:
		logger.Warn("application type registry unreachable, falling back to clean deploy",
			append(fields, zap.Error(res.Err))...)
	case RegistrationSameVersion:
		logger.Warn("target version already registered, removing it before redeploy", fields...)
	case RegistrationOtherVersion:
		if isDowngrade(version, res.Versions) {
			logger.Warn("target version is lower than a registered version", fields...)
		}
		logger.Info("deployment mode classified", fields...)
	default:
		logger.Info("deployment mode classified", fields...)
	}

	p, err := Render(r, version, mode)
	if err != nil {
		return nil, err
	}
	p.Registration = res.Registration
	return p, nil
}
