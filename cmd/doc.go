// Package cmd implements the sfdeploy command-line interface.
//
// sfdeploy is invoked once per CI build. It gathers the deployment request
// from flags, SFDEPLOY_* environment variables and an optional YAML request
// file, synthesizes the sfctl command line that deploys the application
// package to a Service Fabric cluster, and either prints it (plan), checks
// the inputs (verify) or runs it locally or on a remote build host over SSH
// (deploy).
//
// Start with rootCmd.go and init.go for the cobra and viper wiring, then
// loadConfig.go for how the three configuration sources are layered.
package cmd
