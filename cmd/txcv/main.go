package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"codeberg.org/snonux/txcv/internal/cli"
	"codeberg.org/snonux/txcv/internal/credentials"
	"codeberg.org/snonux/txcv/internal/history"
	"codeberg.org/snonux/txcv/internal/models"
	"codeberg.org/snonux/txcv/internal/output"
	"codeberg.org/snonux/txcv/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		level := "info"
		if flags.Verbose {
			level = "debug"
		}
		cli.InitLogger(level)
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd.Context(), args, flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Execute command
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, args []string, flags *cli.Flags) error {
	store, err := credentials.NewFileStore("")
	if err != nil {
		return err
	}

	// Handle --clear flag
	if flags.Clear {
		if err := credentials.Clear(store); err != nil {
			return err
		}
		fmt.Println("Credentials cleared")
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels(ctx, os.Stdout, viper.GetString("openai.model"))
	}

	// Handle --history flag
	if flags.History > 0 {
		h, err := history.Open(viper.GetString("history.path"))
		if err != nil {
			return err
		}
		defer h.Close()
		return processor.ShowHistory(ctx, h, flags.History, os.Stdout)
	}

	opts, err := cli.ProcessorOptions()
	if err != nil {
		return err
	}

	colorMode, err := output.ParseColorMode(viper.GetString("output.color"))
	if err != nil {
		return err
	}
	printer := output.NewPrinter(os.Stdout, colorMode, viper.GetBool("output.concise"))

	// Credentials can only be asked for on a terminal
	stdinIsTerminal := term.IsTerminal(int(os.Stdin.Fd()))
	var prompter credentials.Prompter
	if stdinIsTerminal {
		prompter = credentials.NewTerminalPrompter(os.Stdin, os.Stderr)
	}

	port, err := processor.NewPort(ctx, cli.ProviderConfig(), store, prompter)
	if err != nil {
		return err
	}

	var recorder processor.Recorder
	if viper.GetBool("history.enabled") && !flags.NoHistory {
		h, err := history.Open(viper.GetString("history.path"))
		if err != nil {
			slog.Warn("history disabled", slog.String("error", err.Error()))
		} else {
			defer h.Close()
			recorder = h
		}
	}

	proc := processor.NewProcessor(port, printer, recorder, opts)

	switch {
	case flags.BatchFile != "":
		return proc.ProcessBatchFile(ctx, flags.BatchFile)
	case len(args) > 0:
		return proc.ProcessBatch(ctx, args)
	case !stdinIsTerminal:
		return proc.ProcessText(ctx, os.Stdin)
	default:
		return proc.RunInteractive(ctx, prompter)
	}
}
