package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/promptpal/promptpal-go/pkg/config"
	"github.com/promptpal/promptpal-go/pkg/credstore"
	"github.com/promptpal/promptpal-go/pkg/gateway"
	"github.com/promptpal/promptpal-go/pkg/logger"
)

// profile is the optional ~/.promptpal/config.yaml overlay. Environment
// values load first; non-zero profile fields win.
type profile struct {
	APIURL        string `yaml:"api_url"`
	SessionFile   string `yaml:"session_file"`
	SessionSecret string `yaml:"session_secret"`
	LogLevel      string `yaml:"log_level"`
}

type app struct {
	creds   *credstore.Manager
	gateway *gateway.Client
	logger  *slog.Logger
	apiURL  string
	stdin   *bufio.Reader
}

func newApp(ctx context.Context) (*app, error) {
	var logCfg logger.Config
	if err := config.Load(&logCfg); err != nil {
		return nil, err
	}

	var gwCfg gateway.Config
	if err := config.Load(&gwCfg); err != nil {
		return nil, err
	}

	var storeCfg credstore.Config
	if err := config.Load(&storeCfg); err != nil {
		return nil, err
	}

	var prof profile
	if err := config.LoadProfile(config.DefaultProfilePath(), &prof); err != nil {
		return nil, err
	}
	if prof.APIURL != "" {
		gwCfg.BaseURL = prof.APIURL
	}
	if prof.SessionFile != "" {
		storeCfg.Backend = "file"
		storeCfg.FilePath = prof.SessionFile
	}
	if prof.SessionSecret != "" {
		storeCfg.FileSecret = prof.SessionSecret
	}
	if prof.LogLevel != "" {
		logCfg.Level = prof.LogLevel
	}

	log := logger.New(logger.WithConfig(logCfg), logger.WithTextFormatter(), logger.WithOutput(os.Stderr))

	// With no explicit backend the session persists in an encrypted file
	// next to the profile, so logins survive between invocations.
	if storeCfg.Backend == "" || storeCfg.Backend == "memory" {
		if path := defaultSessionPath(); path != "" && storeCfg.FileSecret != "" {
			storeCfg.Backend = "file"
			storeCfg.FilePath = path
		}
	}
	if storeCfg.Backend == "memory" {
		log.Warn("no session secret configured, session will not persist between runs",
			logger.Component("cli"),
		)
	}

	creds, err := credstore.NewFromConfig(ctx, storeCfg, credstore.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	return &app{
		creds:   creds,
		gateway: gateway.New(creds, gateway.WithConfig(gwCfg), gateway.WithLogger(log)),
		logger:  log,
		apiURL:  strings.TrimRight(gwCfg.BaseURL, "/"),
		stdin:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *app) close() {
	_ = a.creds.Close()
}

// prompt reads one trimmed line from stdin after printing a label.
func (a *app) prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := a.stdin.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".promptpal", "session.enc")
}
