package deploy

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

const (
	// AppIDPrefix is the URI scheme every Service Fabric application name carries.
	AppIDPrefix = "fabric:/"
	// DefaultTool is the cluster CLI the plan drives.
	DefaultTool = "sfctl"
	// GatewayPort is the management gateway port of the cluster.
	GatewayPort = 19080
)

// Request holds the deployment parameters of one build.
type Request struct {
	ApplicationID   string `validate:"required,singleline,startswith=fabric:/,min=9"`
	ApplicationType string `validate:"required,singleline"`
	ClusterEndpoint string `validate:"required,singleline,hostname_rfc1123|ip"`
	ManifestPath    string `validate:"required,singleline"`
	WorkspaceRoot   string `validate:"singleline"`

	ClientKey  string `validate:"required_with=ClientCert,singleline"`
	ClientCert string `validate:"required_with=ClientKey,singleline"`
	CAChain    string `validate:"excluded_without=ClientKey,singleline"`

	// Parameters are application parameter overrides passed to upgrade.
	Parameters map[string]string `validate:"dive,keys,singleline,endkeys,singleline"`

	// Tool overrides the sfctl binary name or path.
	Tool string `validate:"singleline"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Values end up inside a single-line shell command.
	_ = v.RegisterValidation("singleline", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsControl)
	})
	return v
}

// Validate checks the request and returns a *ConfigError describing every
// violated rule.
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ConfigError{Subject: "request", Msg: "validation failed", Err: err}
	}
	msgs := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
		return describeFieldError(fe)
	})
	return &ConfigError{Subject: verrs[0].Field(), Msg: strings.Join(msgs, "; ")}
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "startswith", "min":
		return fmt.Sprintf("%s must begin with %q followed by a name", field, AppIDPrefix)
	case "hostname_rfc1123|ip", "hostname_rfc1123", "ip":
		return fmt.Sprintf("%s must be a host name or IP address", field)
	case "singleline":
		return fmt.Sprintf("%s must not contain control characters or newlines", field)
	case "required_with":
		return "ClientKey and ClientCert must be given together"
	case "excluded_without":
		return "CAChain requires ClientKey and ClientCert"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// AppName is the application id without the fabric:/ prefix. It names the
// package folder and identifies the application in sfctl calls.
func (r Request) AppName() string {
	return strings.TrimPrefix(r.ApplicationID, AppIDPrefix)
}

// Secure reports whether the cluster connection uses client certificates.
func (r Request) Secure() bool {
	return r.ClientKey != "" && r.ClientCert != ""
}

func (r Request) tool() string {
	if r.Tool == "" {
		return DefaultTool
	}
	return r.Tool
}

// PackageDir is the application package root that upload and provision run
// from. The manifest is assumed to sit two levels below it, as in
// <root>/<package>/ApplicationManifest.xml, so the last two path segments are
// stripped. A manifest path with fewer segments yields ".".
func PackageDir(manifestPath string) string {
	p := path.Clean(strings.ReplaceAll(manifestPath, "\\", "/"))
	return path.Dir(path.Dir(p))
}

// WorkspaceFromEnv derives a Jenkins-style workspace root,
// <buildHome>/workspace/<project>. It returns "" when either part is missing.
func WorkspaceFromEnv(buildHome, project string) string {
	if buildHome == "" || project == "" {
		return ""
	}
	return path.Join(buildHome, "workspace", project)
}
