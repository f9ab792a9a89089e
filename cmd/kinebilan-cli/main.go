package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kinebilan/mobile-core/internal/bootstrap"
	domainsession "github.com/kinebilan/mobile-core/internal/domain/session"
	"github.com/kinebilan/mobile-core/internal/ports"
	"github.com/kinebilan/mobile-core/internal/service"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger, os.Args[1:]); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger, args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	core, err := bootstrap.NewCore(&cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := core.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close core failed", "error", cerr)
		}
	}()

	sessions := core.Sessions
	sessions.Restore(ctx)

	switch args[0] {
	case "status":
		printStatus(sessions.Snapshot(), sessions.UserID())
		return nil

	case "login":
		if len(args) != 3 {
			return fmt.Errorf("usage: kinebilan-cli login <email> <password>")
		}
		res := sessions.Login(ctx, args[1], args[2])
		if !res.Success {
			fmt.Println("login failed:", res.Message)
			return nil
		}
		fmt.Println("signed in as", sessions.UserID())
		return nil

	case "logout":
		prompter := &terminalPrompter{in: bufio.NewReader(os.Stdin)}
		ex := service.NewExecutor(service.ExecutorOptions{Prompter: prompter, Logger: logger})
		ex.Confirm(service.ConfirmOptions{
			Title:     "Sign out",
			Message:   "Sign out of this device?",
			OnConfirm: func() {
				sessions.Logout(ctx)
				fmt.Println("signed out")
			},
			OnCancel: func() {
				fmt.Println("canceled")
			},
		})
		return nil

	case "forgot-password":
		if len(args) != 2 {
			return fmt.Errorf("usage: kinebilan-cli forgot-password <email>")
		}
		res := sessions.RequestPasswordReset(ctx, args[1])
		if !res.Success {
			fmt.Println("request failed:", res.Message)
			return nil
		}
		fmt.Println("reset email requested for", args[1])
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printStatus(snap domainsession.Session, userID string) {
	fmt.Println("status:", snap.Status)
	if snap.Status == domainsession.StatusAuthenticated {
		fmt.Println("user:", userID)
	}
	if snap.LastError != "" {
		fmt.Println("last error:", snap.LastError)
	}
}

func usage() {
	fmt.Println(`kinebilan-cli - diagnostic client for the KineBilan session core

commands:
  status                       show the current session state
  login <email> <password>     sign in and persist credentials
  logout                       sign out (with confirmation)
  forgot-password <email>      request a password reset email`)
}

// terminalPrompter renders prompts on the terminal.
type terminalPrompter struct {
	in *bufio.Reader
}

var _ ports.Prompter = (*terminalPrompter)(nil)

func (p *terminalPrompter) Alert(title, message string) {
	fmt.Printf("[%s] %s\n", title, message)
}

func (p *terminalPrompter) Confirm(req ports.ConfirmationRequest) {
	fmt.Printf("[%s] %s (%s/%s): ", req.Title, req.Message, req.ConfirmLabel, req.CancelLabel)
	line, err := p.in.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	if err == nil && (answer == "y" || answer == "yes" || strings.EqualFold(answer, req.ConfirmLabel)) {
		if req.OnConfirm != nil {
			req.OnConfirm()
		}
		return
	}
	if req.OnCancel != nil {
		req.OnCancel()
	}
}
