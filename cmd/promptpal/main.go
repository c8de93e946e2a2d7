// Command promptpal is a terminal client for the PromptPal API: sign in with
// a password or through Google, inspect the current session, and browse the
// prompt library.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const usage = `promptpal - PromptPal terminal client

Usage:
  promptpal init          write settings to ~/.promptpal/config.yaml
  promptpal login         sign in with email/username and password
  promptpal google-login  sign in through Google in the browser
  promptpal logout        end the current session
  promptpal whoami        show the signed-in user, plan and usage
  promptpal prompts       browse the prompt library

Run "promptpal <command> -h" for command flags.

Configuration is read from the environment (see .env support), overridden by
~/.promptpal/config.yaml when present.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer app.close()

	var run func(context.Context, []string) error
	switch os.Args[1] {
	case "init":
		run = app.cmdInit
	case "login":
		run = app.cmdLogin
	case "google-login":
		run = app.cmdGoogleLogin
	case "logout":
		run = app.cmdLogout
	case "whoami":
		run = app.cmdWhoami
	case "prompts":
		run = app.cmdPrompts
	case "-h", "--help", "help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", os.Args[1], usage)
		os.Exit(2)
	}

	if err := run(ctx, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
