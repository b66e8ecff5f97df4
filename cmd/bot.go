package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/chat/console"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/chat/discord"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/observability"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Answer attendance commands in Discord",
	Long: `Connects to Discord with the configured bot token (discord.token,
TAT_DISCORD_TOKEN or DISCORD_TOKEN) and answers hi, bye, delete, list and
csvlist in the configured channels. The requesting Discord user name is the
default user of every command.`,
	Args: cobra.NoArgs,
	RunE: runBot,
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Type attendance commands interactively",
	Args:  cobra.NoArgs,
	RunE:  runConsole,
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := mustApp(ctx, appOptions{interactive: true})
	defer a.Close()

	if addr := a.cfg.Metrics.Addr; addr != "" {
		go func() {
			if err := observability.ServeMetrics(ctx, addr); err != nil {
				a.logger.Error("metrics server stopped", "addr", addr, "error", err)
			}
		}()
		a.logger.Info("serving metrics", "addr", addr)
	}

	bot := discord.New(a.cfg.Discord.Token, a.cfg.Discord.Channels, a.dispatcher, a.logger)
	return bot.Run(ctx)
}

func runConsole(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := mustApp(ctx, appOptions{interactive: true})
	defer a.Close()

	return console.New(os.Stdin, os.Stdout, currentUser(), a.dispatcher).Run(ctx)
}
