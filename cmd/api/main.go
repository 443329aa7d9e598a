package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlibekovAA/places-directory/internal/common/bootstrap"
	srv "github.com/AlibekovAA/places-directory/internal/common/server"
)

func main() {
	app, err := bootstrap.NewAPIApp(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start api: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app.StartBackground(ctx)

	serverConfig := srv.DefaultServerConfig(app.Config.HTTPPort)
	server := srv.NewServer(serverConfig, app.Handler())

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			app.Log.Infof("api service: closing place feed")
			cancel()
			return nil
		},
	}

	srv.StartWithGracefulShutdownAndHooks(server, app.Log, "api", shutdownHooks)
}
