package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-simple-pathtracer/pkg/config"
	"github.com/df07/go-simple-pathtracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.String("port", "", "Port to serve on (overrides PATHTRACER_PORT)")
	envFile := flag.String("env", ".env", "Environment file to load")
	scenesDir := flag.String("scenes", "scenes", "Directory containing JSON scene files")
	flag.Parse()

	settings, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != "" {
		settings.Port = *port
	}

	if host, err := config.HostInfo(); err == nil {
		log.Printf("Host: %s", host)
	}

	webServer, err := server.NewServer(settings, *scenesDir)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	log.Printf("Simple Path Tracer Web Server")
	log.Printf("POST http://localhost:%s/api/render to start rendering", settings.Port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
