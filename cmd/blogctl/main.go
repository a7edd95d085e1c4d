// Command blogctl is a terminal client for the blog API.
//
// Configuration comes from BLOG_* environment variables or a .env file; see
// blogclient.Config. The session is kept between runs in the configured
// session backend.
//
//	blogctl login -u alice
//	blogctl posts list
//	blogctl posts create --title "Hello" --content "First **post**"
//	blogctl profile
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := newApp(os.Stdin, os.Stdout)
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	cancel()

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
