// ============================================================================
// METADATA
// ============================================================================
// omc launcher - thin wrapper that extracts omc-specific flags, sets the
// matching environment variables, and execs the host binary with the
// remaining arguments. See SPEC_FULL.md section 6 "CLI surface".
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	cli "github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "omc",
		Usage: "Launch the host coding agent with omc's orchestration hooks wired in",
		Commands: []*cli.Command{
			launchCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "omc: %v\n", err)
		os.Exit(1)
	}
}

func launchCmd() *cli.Command {
	return &cli.Command{
		Name:            "launch",
		Usage:           "Launch the host binary",
		SkipFlagParsing: false,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "madmax", Usage: "Maximum autonomy: disable confirmation gates"},
			&cli.BoolFlag{Name: "yolo", Usage: "Alias for --madmax"},
			&cli.BoolFlag{Name: "notify", Usage: "Enable the OMC_NOTIFY notification channel", Value: false},
			&cli.BoolFlag{Name: "telegram", Usage: "Enable the Telegram notification channel"},
			&cli.BoolFlag{Name: "discord", Usage: "Enable the Discord notification channel"},
			&cli.BoolFlag{Name: "slack", Usage: "Enable the Slack notification channel"},
			&cli.BoolFlag{Name: "webhook", Usage: "Enable the generic webhook notification channel"},
			&cli.BoolFlag{Name: "openclaw", Usage: "Enable the OpenClaw notification channel"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env := os.Environ()
			env = appendToggle(env, "OMC_MADMAX", cmd.Bool("madmax") || cmd.Bool("yolo"))
			env = appendToggle(env, "OMC_NOTIFY", cmd.Bool("notify"))
			env = appendToggle(env, "OMC_TELEGRAM", cmd.Bool("telegram"))
			env = appendToggle(env, "OMC_DISCORD", cmd.Bool("discord"))
			env = appendToggle(env, "OMC_SLACK", cmd.Bool("slack"))
			env = appendToggle(env, "OMC_WEBHOOK", cmd.Bool("webhook"))
			env = appendToggle(env, "OMC_OPENCLAW", cmd.Bool("openclaw"))

			hostBin := os.Getenv("OMC_HOST_BIN")
			if hostBin == "" {
				hostBin = "claude"
			}
			hostPath, err := exec.LookPath(hostBin)
			if err != nil {
				return fmt.Errorf("locating host binary %q: %w", hostBin, err)
			}

			args := append([]string{hostBin}, cmd.Args().Slice()...)
			return execHost(hostPath, args, env)
		},
	}
}

// appendToggle appends KEY=1 or KEY=0 to env, overriding any existing
// value for KEY (the explicit flag always wins over an inherited one).
func appendToggle(env []string, key string, on bool) []string {
	value := "0"
	if on {
		value = "1"
	}
	filtered := env[:0:0]
	prefix := key + "="
	for _, kv := range env {
		if len(kv) >= len(prefix) && kv[:len(prefix)] == prefix {
			continue
		}
		filtered = append(filtered, kv)
	}
	return append(filtered, key+"="+value)
}

// execHost replaces the current process image with the host binary on
// platforms that support it, so the exit code propagates exactly and no
// omc process lingers as a parent. Falls back to a child-process run with
// manual exit-code propagation where syscall.Exec is unavailable.
func execHost(path string, args []string, env []string) error {
	if err := syscall.Exec(path, args, env); err != nil {
		return runChild(path, args, env)
	}
	return nil
}

func runChild(path string, args []string, env []string) error {
	cmd := exec.Command(path, args[1:]...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if exitErr, ok := err.(*exec.ExitError); ok {
		os.Exit(exitErr.ExitCode())
	}
	return err
}
