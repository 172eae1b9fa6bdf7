package main

import (
	"context"
	"fmt"
	"os"

	"bricktrack/internal/config"
	"bricktrack/internal/shell"
	"bricktrack/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Global flags
	configPath string
	dataDir    string
	language   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "bricktrack",
	Short: "BrickTrack - time your brick set builds bag by bag",
	Long: `BrickTrack tracks how long each numbered bag of a brick set takes to build.

Run without arguments to open the full-screen tracker. Sets, sessions and the
language preference are stored under the data directory.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the line-oriented shell",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every set, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var statsCmd = &cobra.Command{
	Use:   "stats [set]",
	Short: "Print collection stats, plus one set's detail and history",
	Long: `Prints the collection-wide stats. With an argument (list number or id
prefix), also prints that set's detail card, pace chart and bag history.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a project config scaffold (.bricktrack/config.json)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config JSON/JSONC")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory override")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "", "Interface language (en or fr), persisted")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(shellCmd, listCmd, statsCmd, initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	ticks := tui.NewTickSource()
	rt, err := openRuntime(ctx, runtimeOptions{OnTick: ticks.Notify})
	if err != nil {
		return err
	}
	runErr := tui.Run(rt.app, tui.Options{
		Ticks:   ticks,
		Theme:   rt.cfg.UI.Theme,
		Context: ctx,
	})
	closeErr := rt.Close()
	ticks.Close()
	if runErr != nil {
		return fmt.Errorf("run tui: %w", runErr)
	}
	return closeErr
}

func runShell(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(cmd.Context(), runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	input, inputErr := shell.NewLineInput(rt.manager.HistoryPath(), shell.SetRefs(rt.app))
	if inputErr != nil {
		fmt.Fprintf(os.Stderr, "line editor unavailable, fallback to basic input: %v\n", inputErr)
	}
	defer input.Close()

	sh := shell.New(rt.app, input, cmd.OutOrStdout(), shell.Options{
		Color:  term.IsTerminal(int(os.Stdout.Fd())),
		Logger: rt.logger,
	})
	return sh.Run(cmd.Context())
}

func runList(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(cmd.Context(), runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	shell.WriteList(cmd.OutOrStdout(), rt.app.T, rt.app.Sets(), rt.app.ActiveID())
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(cmd.Context(), runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	shell.WriteStats(out, rt.app.T, rt.app.Stats())
	if len(args) == 0 {
		return nil
	}
	set, ok := shell.FindSet(rt.app.Sets(), args[0])
	if !ok {
		return fmt.Errorf("no set matches %q", args[0])
	}
	fmt.Fprintln(out)
	shell.WriteSet(out, rt.app.T, set)
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := ""
	if len(args) == 1 {
		dir = args[0]
	}
	path, err := config.InitProjectConfigScaffold(dir)
	if err != nil {
		return fmt.Errorf("init project config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "project config: %s\n", path)
	return nil
}
