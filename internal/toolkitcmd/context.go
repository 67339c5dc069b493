package toolkitcmd

import (
	"context"
	"os"
	"os/signal"
)

func contextWithInterrupt() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
