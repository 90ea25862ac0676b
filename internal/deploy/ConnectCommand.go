package deploy

// ConnectCommand selects the cluster. Secure requests pass the client key
// pair, the optional CA chain and --no-verify; plain requests pass only the
// endpoint.
func ConnectCommand(r Request) Command {
	c := Command{r.tool(), "cluster", "select", "--endpoint", Endpoint(r)}
	if !r.Secure() {
		return c
	}
	c = append(c, "--key", r.ClientKey, "--cert", r.ClientCert)
	if r.CAChain != "" {
		c = append(c, "--ca-chain", r.CAChain)
	}
	return append(c, "--no-verify")
}
