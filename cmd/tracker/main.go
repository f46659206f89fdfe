// Command tracker is the command-line interface: print the current
// stats, send the stats email or publish the website.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gr8tracker/internal/cache"
	"gr8tracker/internal/config"
	"gr8tracker/internal/email"
	"gr8tracker/internal/nhl"
	"gr8tracker/internal/render"
	"gr8tracker/internal/tracker"
	"gr8tracker/internal/website"
)

const (
	usage          = "Usage: tracker [stats|email|email-to <address>|website]"
	unknownCommand = "Unknown command. Use 'stats', 'email', 'email-to <address>', or 'website'"
)

// commands are the verbs the CLI dispatches to.
type commands interface {
	Stats(ctx context.Context, out io.Writer) error
	Email(ctx context.Context, out io.Writer, recipient string) error
	Website(ctx context.Context, out io.Writer) error
}

func main() {
	setupLogger()
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, newApp))
}

// run dispatches the CLI verb and returns the process exit code. The
// real dependencies are built lazily so that printing usage or
// rejecting an unknown verb needs no configuration.
func run(ctx context.Context, args []string, out, errOut io.Writer, build func(context.Context) (commands, error)) int {
	if len(args) == 0 {
		fmt.Fprintln(out, usage)
		return 0
	}

	verb := strings.ToLower(args[0])
	switch verb {
	case "stats", "email", "website":
	case "email-to":
		if len(args) < 2 {
			fmt.Fprintln(out, unknownCommand)
			return 0
		}
	default:
		fmt.Fprintln(out, unknownCommand)
		return 0
	}

	cmds, err := build(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	switch verb {
	case "stats":
		if err := cmds.Stats(ctx, out); err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return 1
		}
	case "email":
		if err := cmds.Email(ctx, out, ""); err != nil {
			return 1
		}
	case "email-to":
		if err := cmds.Email(ctx, out, args[1]); err != nil {
			return 1
		}
	case "website":
		if err := cmds.Website(ctx, out); err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return 1
		}
	}
	return 0
}

// app wires the real command implementations.
type app struct {
	cfg     *config.Config
	service *tracker.Service
}

func newApp(_ context.Context) (commands, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	nhlClient := nhl.NewClient(cfg.NHLBaseURL, cfg.PlayerID, cfg.TeamAbbrev, cfg.NHLTimeout)
	service := tracker.NewService(nhlClient, cache.NewMemoryStore(cfg.CacheTTL), cfg.SeasonEnd())
	return &app{cfg: cfg, service: service}, nil
}

func (a *app) Stats(ctx context.Context, out io.Writer) error {
	bundle, err := a.service.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(out, render.StatsText(bundle))
	return nil
}

func (a *app) Email(ctx context.Context, out io.Writer, recipient string) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	// Prompt for and persist any missing parameters on local runs.
	store := config.NewParameterStoreResolver(ssm.NewFromConfig(awsCfg), a.cfg.ParameterPath)
	resolver := config.NewInteractiveResolver(store, os.Stdin, os.Stdout)

	emailCfg, err := resolver.Resolve(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	sender, err := email.NewSender(ctx, emailCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	bundle, err := a.service.Stats(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	target := recipient
	if target == "" {
		target = emailCfg.Recipient
	}
	fmt.Fprintf(out, "Sending email to %s\n", target)

	if err := sender.Send(ctx, bundle, recipient); err != nil {
		fmt.Fprintf(out, "Failed to send email to %s\n", target)
		return err
	}
	fmt.Fprintf(out, "Email sent successfully to %s\n", target)
	return nil
}

func (a *app) Website(ctx context.Context, out io.Writer) error {
	runtime := config.DetectRuntime(a.cfg.WebsiteStaticDir)
	publisher, err := website.NewPublisher(ctx, a.cfg, runtime)
	if err != nil {
		return err
	}

	bundle, err := a.service.Stats(ctx)
	if err != nil {
		return err
	}

	if err := publisher.Publish(ctx, bundle); err != nil {
		return err
	}
	fmt.Fprintln(out, "Website updated successfully")
	return nil
}

// setupLogger keeps CLI output readable: warnings and errors only unless
// LOG_LEVEL says otherwise.
func setupLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})

	level := zerolog.WarnLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)
}
