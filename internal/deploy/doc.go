// Package deploy turns a build's deployment parameters into the single shell
// command that deploys a Service Fabric application with sfctl.
//
// The flow for one build is: validate the Request, read the target version
// from the ApplicationManifest.xml in the workspace, decide between a fresh
// install, a monitored upgrade or a clean redeploy, and render the ordered
// clauses as one newline-free string for a shell executor.
//
// Two deployment-mode strategies exist. StrategyRuntime (the default) embeds
// the decision into the plan as shell conditionals that query
// `sfctl application info` on the build host when the plan runs.
// StrategyProbe reads the cluster's application-type registry while building
// the plan and renders a plan for exactly one Mode; an unreachable registry
// falls back to ModeClean.
//
// Nothing in this package spawns processes or keeps state between calls.
package deploy
