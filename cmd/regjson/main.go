// Command regjson exports a registry subtree to a JSON (or YAML) file,
// once or repeatedly.
//
// Usage:
//
//	regjson -r <registry path> -o <output file> [-watch]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, defaultEnv(), os.Args[1:])
	stop()
	os.Exit(code)
}
