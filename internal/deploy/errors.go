package deploy

import "fmt"

// ConfigError reports a build or configuration defect: an invalid request or
// an unreadable manifest. It is fatal for the build and never retried.
type ConfigError struct {
	// Subject is the field name or file path at fault.
	Subject string
	Msg     string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error: %s: %s: %v", e.Subject, e.Msg, e.Err)
	}
	return fmt.Sprintf("config error: %s: %s", e.Subject, e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ConnectivityError reports a failed or timed-out registry probe. The
// synthesizer recovers from it by assuming a clean deploy.
type ConnectivityError struct {
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("registry probe %s: %v", e.URL, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }
