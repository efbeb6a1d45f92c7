// Command corestone runs the sandbox-game server core: connection
// lifecycle, packet pipeline, wire codec, and region/chunk decoder.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oriumgames/corestone/internal/config"
	"github.com/oriumgames/corestone/internal/server"
)

const buildVersion = "0.1.0"

func main() {
	configPath := flag.String("config", "server.yaml", "path to the server's YAML configuration file")
	version := flag.Bool("version", false, "print the build version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("corestone v%s\n", buildVersion)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	core, err := server.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		core.Shutdown()
	}()

	core.Run()
}
