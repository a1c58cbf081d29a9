// Command worker runs the webhook intake server and the job processing loop
// in one process. SIGINT or SIGTERM drains in-flight jobs and stops it.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/storewatch/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
