package lib

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

// HandleInterrupt cancels ctx on the first SIGINT or SIGTERM so running
// work can stop cleanly. A second signal exits immediately.
func HandleInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-c:
			log.Warn().Msg("process interrupted, stopping")
			cancel()
		case <-ctx.Done():
			signal.Stop(c)
			return
		}
		<-c
		log.Fatal().Msg("process interrupted")
	}()
	return ctx, cancel
}
