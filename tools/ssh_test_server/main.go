package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/suhuruli/service-fabric-jenkins-plugin/internal/logger"
	srv "github.com/suhuruli/service-fabric-jenkins-plugin/tools/sshserv"
)

func main() {
	listen := pflag.StringP("listen", "l", "127.0.0.1:20222", "Address to listen on")
	level := pflag.String("log-level", "info", "Log level: debug, info, warn, error")
	pflag.Parse()

	if err := logger.Init(logger.Config{Level: *level}); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	addr, stop, err := srv.Start(*listen)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "failed to start test ssh server:", err)
		os.Exit(1)
	}
	_, _ = fmt.Fprintf(os.Stderr, "test build host listening on %s (use --strict-host-key=false)\n", addr)
	defer stop()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
