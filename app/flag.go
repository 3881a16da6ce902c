package app

import "github.com/urfave/cli/v2"

var (
	sinceFlag = &cli.StringFlag{
		Name:  "since",
		Usage: "Only show invitations sent after this time (e.g. '2 days ago')",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output as JSON",
	}

	yesFlag = &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Skip the confirmation prompt",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable the system notification that appears when a phase ends",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:  "cmd",
		Usage: "Execute an arbitrary command when a phase ends",
	}

	soundFlag = &cli.StringFlag{
		Name:  "sound",
		Usage: "Sound played when a phase ends: 'tone', a path to an mp3, ogg, flac\n\t\t\t\tor wav file, or 'off'",
	}

	remoteFlag = &cli.BoolFlag{
		Name:  "remote",
		Usage: "Use the shared store service instead of the local store",
	}

	storeURLFlag = &cli.StringFlag{
		Name:  "store-url",
		Usage: "URL of the store service (implies --remote)",
	}

	breakFlag = &cli.IntFlag{
		Name:    "break",
		Aliases: []string{"b"},
		Usage:   "Break duration in minutes (default: 5)",
	}

	workFlag = &cli.IntFlag{
		Name:    "work",
		Aliases: []string{"w"},
		Usage:   "Work duration in minutes (default: 25)",
	}
)
