package app

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayoisaiah/focusroom/internal/config"
	"github.com/ayoisaiah/focusroom/internal/osutil"
	"github.com/ayoisaiah/focusroom/internal/pathutil"
	"github.com/ayoisaiah/focusroom/internal/ui"
)

const (
	envNoColor          = "NO_COLOR"
	envFocusroomNoColor = "FOCUSROOM_NO_COLOR"
	envDebug            = "FOCUSROOM_DEBUG"
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// setupLogging sends slog output to a rotated file in the data directory.
func setupLogging() {
	level := slog.LevelInfo
	if _, ok := os.LookupEnv(envDebug); ok {
		level = slog.LevelDebug
	}

	w := &lumberjack.Logger{
		Filename:   pathutil.LogFilePath(),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})))
}

// configAction prints the location and the effective values of the config.
func configAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	pterm.Info.Printfln("config file: %s", cfg.System.ConfigPath)
	cfg.Describe(config.Stdout)

	return nil
}

// editConfigAction opens the config file in the user's default text editor.
func editConfigAction(_ *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == osutil.Windows {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, pathutil.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

// statusAction prints the signed in user and the active room.
func statusAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		id, ok, err := e.gate.Restore(ctx.Context)
		if err != nil {
			return err
		}

		if !ok {
			pterm.Info.Println("not signed in")
			return nil
		}

		backend := e.cfg.Store.Backend
		if e.cfg.Remote() {
			backend += " (" + e.cfg.Store.URL + ")"
		}

		rows := [][]string{
			{"user", fmt.Sprintf("%s <%s>", ui.Highlight(id.DisplayName), id.Email)},
			{"store", backend},
		}

		if r, err := e.activeRoom(ctx.Context); err == nil {
			rows = append(rows, []string{"room", ui.Green(r.Name)})
		} else {
			rows = append(rows, []string{"room", "none"})
		}

		for _, row := range rows {
			fmt.Fprintf(config.Stdout, "%-6s %s\n", row[0]+":", row[1])
		}

		return nil
	})
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	// Override the default version printer
	oldVersionPrinter := cli.VersionPrinter
	cli.VersionPrinter = func(c *cli.Context) {
		oldVersionPrinter(c)
		fmt.Printf(
			"https://github.com/ayoisaiah/focusroom/releases/%s\n",
			c.App.Version,
		)
	}

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	if _, exists := os.LookupEnv(envFocusroomNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	err := pathutil.Initialize()
	if err != nil {
		return err
	}

	setupLogging()

	slog.DebugContext(ctx.Context, "starting focusroom", slog.Any("args", ctx.Args().Slice()))

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting focusroom")

	return nil
}
