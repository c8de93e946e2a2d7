package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/promptpal/promptpal-go/pkg/config"
	"github.com/promptpal/promptpal-go/pkg/gateway"
	"github.com/promptpal/promptpal-go/pkg/handshake"
	"github.com/promptpal/promptpal-go/pkg/session"
	"github.com/promptpal/promptpal-go/pkg/subscription"
)

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	username := fs.String("username", "", "account username (ignored when -email is set)")
	password := fs.String("password", "", "account password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" && *username == "" {
		value, err := a.prompt("email: ")
		if err != nil {
			return err
		}
		*email = value
	}
	if *password == "" {
		value, err := a.prompt("password: ")
		if err != nil {
			return err
		}
		*password = value
	}

	var route session.Route
	hook := session.New(a.gateway, session.NavigatorFunc(func(r session.Route) { route = r }),
		session.WithLogger(a.logger))

	err := hook.Login(ctx, session.LoginInput{Email: *email, Username: *username, Password: *password})
	if err != nil {
		return errors.New(gateway.ErrorMessage(err))
	}

	if route.View == session.ViewVerifyOTP {
		fmt.Println("account not verified yet, a code was emailed to you")
		return a.verifyFlow(ctx, route.Email)
	}

	user, err := a.gateway.Credentials().User(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s\n", user.Email)
	return nil
}

// verifyFlow prompts for the emailed 6-digit code until it verifies, with a
// "resend" escape hatch.
func (a *app) verifyFlow(ctx context.Context, email string) error {
	for {
		code, err := a.prompt("verification code (or \"resend\"): ")
		if err != nil {
			return err
		}

		if code == "resend" {
			if _, err := a.gateway.RequestOTP(ctx, email); err != nil {
				fmt.Println(gateway.ErrorMessage(err))
			} else {
				fmt.Println("code sent")
			}
			continue
		}

		result, err := a.gateway.VerifyOTP(ctx, email, code)
		if err != nil {
			if errors.Is(err, gateway.ErrInvalidOTP) {
				fmt.Println("codes are 6 digits, try again")
				continue
			}
			return errors.New(gateway.ErrorMessage(err))
		}

		fmt.Printf("verified, signed in as %s\n", result.User.Email)
		return nil
	}
}

func (a *app) cmdLogout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a.gateway.Logout(ctx)
	fmt.Println("signed out")
	return nil
}

func (a *app) cmdWhoami(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !a.creds.IsAuthenticated(ctx) {
		return errors.New("not signed in")
	}

	user, err := a.gateway.Profile(ctx)
	if err != nil {
		if errors.Is(err, gateway.ErrAuthExpired) {
			return errors.New("session expired, sign in again")
		}
		return errors.New(gateway.ErrorMessage(err))
	}

	fmt.Printf("user:  %s", user.Email)
	if user.Name != "" {
		fmt.Printf(" (%s)", user.Name)
	}
	fmt.Println()

	subs := subscription.New(a.creds, subscription.WithBaseURL(a.apiURL), subscription.WithLogger(a.logger))
	status, err := subs.Status(ctx)
	if err != nil {
		// The identity answer stands on its own; plan data is extra.
		a.logger.Debug("subscription status unavailable", "error", err)
		return nil
	}

	fmt.Printf("plan:  %s\n", status.Plan.Name)
	if status.Usage.Remaining() >= 0 {
		fmt.Printf("usage: %d/%d prompts this period\n", status.Usage.PromptsUsed, status.Usage.PromptsLimit)
	} else {
		fmt.Printf("usage: %d prompts this period (unlimited)\n", status.Usage.PromptsUsed)
	}
	return nil
}

func (a *app) cmdGoogleLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("google-login", flag.ContinueOnError)
	listen := fs.String("listen", "127.0.0.1:8910", "local address for the OAuth callback")
	timeout := fs.Duration("timeout", 3*time.Minute, "how long to wait for the browser handshake")
	if err := fs.Parse(args); err != nil {
		return err
	}

	origin := "http://" + *listen

	var googleCfg handshake.GoogleConfig
	if err := config.Load(&googleCfg); err != nil {
		return err
	}

	var provider handshake.Provider
	if googleCfg.ClientID != "" {
		if googleCfg.RedirectURL == "" {
			googleCfg.RedirectURL = origin + "/auth/google/callback"
		}
		provider = handshake.NewGoogleProvider(googleCfg)
	} else {
		// Without local OAuth credentials the API hosts the entry point and
		// redirects back to this process when it is done.
		provider = handshake.NewEndpointProvider(a.apiURL + "/auth/google")
	}

	opener := handshake.OpenerFunc(func(url string) (handshake.Window, error) {
		if err := openBrowser(url); err != nil {
			fmt.Println("open this URL in your browser:")
			fmt.Println("  " + url)
		}
		return handshake.NewStubWindow(), nil
	})

	coordinator := handshake.NewCoordinator(provider, opener, a.creds,
		handshake.WithOrigin(origin),
		handshake.WithLogger(a.logger),
	)

	relay := handshake.NewRelay(coordinator, a.creds, origin+"/login", origin+"/dashboard", a.logger)
	srv := &http.Server{Addr: *listen, Handler: relay.Router()}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("callback server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	waitCtx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	fmt.Println("waiting for the browser handshake...")
	result, err := coordinator.Authenticate(waitCtx)
	if err != nil {
		return err
	}

	fmt.Printf("signed in as %s\n", result.User.Email)
	return nil
}

// openBrowser launches the platform's URL handler.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
