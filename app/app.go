// Package app defines the focusroom command-line interface.
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/focusroom/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the focusroom app instance.
func Get() *cli.App {
	return &cli.App{
		Name: "focusroom",
		Authors: []*cli.Author{
			{
				Name:  "Ayooluwa Isaiah",
				Email: "ayo@freshman.tech",
			},
		},
		Usage: `
		Focusroom is a shared work/break timer for the command-line. Create a
		room, invite others by email and keep the same rhythm together.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "start",
				Usage:  "Start the timer in the active room (default)",
				Action: startAction,
			},
			{
				Name:   "login",
				Usage:  "Sign in to your account",
				Action: loginAction,
			},
			{
				Name:   "register",
				Usage:  "Create an account and sign in",
				Action: registerAction,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and forget the active room",
				Action: logoutAction,
			},
			{
				Name:   "passwd",
				Usage:  "Change your password",
				Action: passwdAction,
			},
			{
				Name:   "status",
				Usage:  "Print the signed in user and the active room",
				Action: statusAction,
			},
			{
				Name:  "profile",
				Usage: "Manage your public profile",
				Subcommands: []*cli.Command{
					{
						Name:      "rename",
						Usage:     "Change your display name",
						ArgsUsage: "<name>",
						Action:    renameAction,
					},
					{
						Name:  "avatar",
						Usage: "Manage your profile picture",
						Subcommands: []*cli.Command{
							{
								Name:      "set",
								Usage:     "Upload a profile picture",
								ArgsUsage: "<file>",
								Action:    setAvatarAction,
							},
							{
								Name:   "rm",
								Usage:  "Remove your profile picture",
								Action: removeAvatarAction,
							},
						},
					},
				},
			},
			{
				Name:  "rooms",
				Usage: "List, create, select and leave rooms",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List the rooms you belong to",
						Flags:  []cli.Flag{jsonFlag},
						Action: listRoomsAction,
					},
					{
						Name:      "create",
						Usage:     "Create a room and make it the active room",
						ArgsUsage: "<name>",
						Action:    createRoomAction,
					},
					{
						Name:      "select",
						Usage:     "Choose the active room",
						ArgsUsage: "[name]",
						Action:    selectRoomAction,
					},
					{
						Name:   "exit",
						Usage:  "Leave the active room",
						Flags:  []cli.Flag{yesFlag},
						Action: exitRoomAction,
					},
					{
						Name:   "members",
						Usage:  "List the members of the active room",
						Flags:  []cli.Flag{jsonFlag},
						Action: membersAction,
					},
					{
						Name:      "invite",
						Usage:     "Invite someone to the active room by email",
						ArgsUsage: "<email>",
						Action:    inviteAction,
					},
				},
			},
			{
				Name:  "invites",
				Usage: "Review invitations addressed to you",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List pending invitations",
						Flags:  []cli.Flag{sinceFlag, jsonFlag},
						Action: listInvitesAction,
					},
					{
						Name:      "accept",
						Usage:     "Accept an invitation and join its room",
						ArgsUsage: "[id]",
						Action:    acceptInviteAction,
					},
					{
						Name:      "reject",
						Usage:     "Reject an invitation",
						ArgsUsage: "[id]",
						Action:    rejectInviteAction,
					},
				},
			},
			{
				Name:   "config",
				Usage:  "Print the effective configuration",
				Action: configAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			workFlag,
			breakFlag,
			soundFlag,
			sessionCmdFlag,
			disableNotificationFlag,
			remoteFlag,
			storeURLFlag,
			noColorFlag,
		},
		Action: startAction,
		Before: beforeAction,
		After:  afterAction,
	}
}
