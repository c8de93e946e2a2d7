package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/promptpal/promptpal-go/pkg/config"
)

// cmdInit writes the YAML profile so later invocations pick the settings up
// without environment variables. Existing values survive unless the matching
// flag is set.
func (a *app) cmdInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	apiURL := fs.String("api-url", "", "API root to store in the profile")
	sessionFile := fs.String("session-file", "", "path for the encrypted session file")
	sessionSecret := fs.String("session-secret", "", "secret protecting the session file (stored 0600)")
	logLevel := fs.String("log-level", "", "log level to store in the profile")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := config.DefaultProfilePath()
	if path == "" {
		return fmt.Errorf("cannot resolve home directory for the profile")
	}

	var prof profile
	if err := config.LoadProfile(path, &prof); err != nil {
		return err
	}

	if *apiURL != "" {
		prof.APIURL = *apiURL
	}
	if *sessionFile != "" {
		prof.SessionFile = *sessionFile
	}
	if *sessionSecret != "" {
		prof.SessionSecret = *sessionSecret
	}
	if *logLevel != "" {
		prof.LogLevel = *logLevel
	}

	if err := config.SaveProfile(path, &prof); err != nil {
		return err
	}

	fmt.Printf("profile written to %s\n", path)
	return nil
}
