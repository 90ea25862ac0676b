package deploy

func uploadCommand(r Request) Command {
	return Command{r.tool(), "application", "upload", "--path", r.AppName(), "--show-progress"}
}

func provisionCommand(r Request) Command {
	return Command{r.tool(), "application", "provision", "--application-type-build-path", r.AppName()}
}

func createCommand(r Request, version string) Command {
	return Command{r.tool(), "application", "create",
		"--app-name", r.ApplicationID,
		"--app-type", r.ApplicationType,
		"--app-version", version,
	}
}

func upgradeCommand(r Request, version string) Command {
	return Command{r.tool(), "application", "upgrade",
		"--app-id", r.AppName(),
		"--app-version", version,
		"--parameters", upgradeParameters(r.Parameters),
		"--mode", UpgradeMode,
	}
}

func removeCommand(r Request) Command {
	return Command{r.tool(), "application", "delete", "--application-id", r.AppName()}
}

func unprovisionCommand(r Request, version string) Command {
	return Command{r.tool(), "application", "unprovision",
		"--application-type-name", r.ApplicationType,
		"--application-type-version", version,
	}
}

func infoCommand(r Request) Command {
	return Command{r.tool(), "application", "info", "--application-id", r.AppName()}
}
