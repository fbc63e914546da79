package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	latest "github.com/tcnksm/go-latest"

	"envguard/internal/envlock"
	"envguard/internal/guard"
	"envguard/internal/host"
	"envguard/internal/logging"
	"envguard/internal/model"
	"envguard/internal/plugin"
	"envguard/internal/tui"
	"envguard/internal/web"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "envguard-dev",
		Repository: "envguard",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/envguard-dev/envguard/releases")
	} else {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: envguard [options] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "envguard keeps package-manager environments safe from accidental changes.\n")
		fmt.Fprintf(os.Stderr, "Flagged environments refuse mutating operations until the flag is removed.\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  protect [ENV]       Toggle the protect marker on an environment (-l to list)\n")
		fmt.Fprintf(os.Stderr, "  envlock [ENV]       Toggle the lock ledger entry for an environment (-l to list)\n")
		fmt.Fprintf(os.Stderr, "  hook <host-command> Run the pre-command gates the way the host would\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  envguard protect myenv        # Protect (or unprotect) myenv\n")
		fmt.Fprintf(os.Stderr, "  envguard envlock -l -p        # List locked environments\n")
		fmt.Fprintf(os.Stderr, "  envguard hook install         # Gate an install the way the host would\n")
		fmt.Fprintf(os.Stderr, "  envguard --tui                # Browse and toggle interactively\n")
	}

	configFlag := pflag.StringP("config", "c", "", "Host context config file (TOML)")
	nameFlag := pflag.String("name", "", "Target environment name of the pending host command (hook mode)")
	prefixFlag := pflag.String("prefix", "", "Target environment prefix of the pending host command (hook mode)")
	dryRunFlag := pflag.Bool("dry-run", false, "Host dry-run mode; gates pass without blocking")
	tuiFlag := pflag.BoolP("tui", "t", false, "Browse environments interactively")
	webFlag := pflag.BoolP("web", "w", false, "Serve a status page on http://localhost:8080")
	portFlag := pflag.String("port", "8080", "Port for --web")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for the latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("envguard version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	logging.Init("envguard")

	ctx, err := loadContext(*configFlag)
	if err != nil {
		fail(err)
	}
	ctx.DryRun = ctx.DryRun || *dryRunFlag
	ctx.TargetName = *nameFlag
	ctx.TargetPrefix = *prefixFlag
	if active := os.Getenv("ENVGUARD_ACTIVE_PREFIX"); active != "" {
		ctx.ActivePrefix = active
	}

	guardPlugin := guard.New(ctx)
	lockPlugin, err := envlock.New(ctx)
	if err != nil {
		fail(err)
	}

	plugins := plugin.NewSet()
	plugins.AddSubcommand(guardPlugin.Subcommand())
	plugins.AddSubcommand(lockPlugin.Subcommand())
	plugins.AddPreCommand(guardPlugin.PreCommand())
	plugins.AddPreCommand(lockPlugin.PreCommand())

	if *webFlag {
		if err := web.NewServer(ctx, guardPlugin.Store, lockPlugin.Store).Start(*portFlag); err != nil {
			fail(err)
		}
		return
	}

	if *tuiFlag {
		runTuiMode(ctx, guardPlugin)
		return
	}

	args := pflag.Args()
	if len(args) == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	if args[0] == "hook" {
		if len(args) < 2 {
			fail(fmt.Errorf("hook requires a host command name"))
		}
		if err := plugins.RunPreCommands(args[1]); err != nil {
			fail(err)
		}
		return
	}

	if err := plugins.RunSubcommand(args[0], args[1:]); err != nil {
		fail(err)
	}
}

func loadContext(path string) (host.Context, error) {
	if path == "" {
		return host.DefaultContext(), nil
	}
	return host.LoadContext(path)
}

func runTuiMode(ctx host.Context, guardPlugin *guard.Plugin) {
	m := tui.InitialModel(ctx, guardPlugin.Store, guard.GuardedSymbol, "protected")
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "envguard: %v\n", err)
	os.Exit(1)
}
