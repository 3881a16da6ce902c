package app

import (
	"context"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/focusroom/internal/apperr"
	"github.com/ayoisaiah/focusroom/internal/config"
	"github.com/ayoisaiah/focusroom/internal/identity"
	"github.com/ayoisaiah/focusroom/internal/room"
	"github.com/ayoisaiah/focusroom/report"
)

var (
	errRoomNotFound = apperr.Validation("you are not a member of a room named %q")
	errInviteEmail  = apperr.Validation("an email address is required")
)

// chooseRoom makes a room active, creating one when the user asks for it.
func chooseRoom(
	ctx context.Context,
	e *env,
	id identity.Identity,
) (room.ActiveRoom, error) {
	rooms, err := e.rooms.ListMyRooms(ctx, id.UserID)
	if err != nil {
		return room.ActiveRoom{}, err
	}

	picked, ok, err := pickRoom(rooms)
	if err != nil {
		return room.ActiveRoom{}, err
	}

	if !ok {
		name, err := promptRoomName()
		if err != nil {
			return room.ActiveRoom{}, err
		}

		picked, err = e.rooms.CreateRoom(ctx, name, id.UserID)
		if err != nil {
			return room.ActiveRoom{}, err
		}

		return room.ActiveRoom(picked), nil
	}

	err = e.rooms.SelectRoom(ctx, picked.ID, picked.Name)
	if err != nil {
		return room.ActiveRoom{}, err
	}

	return room.ActiveRoom(picked), nil
}

// findRoom returns the room whose name or id matches query.
func findRoom(rooms []room.Summary, query string) (room.Summary, bool) {
	for _, r := range rooms {
		if r.ID == query {
			return r, true
		}
	}

	for _, r := range rooms {
		if strings.EqualFold(r.Name, query) {
			return r, true
		}
	}

	return room.Summary{}, false
}

// listRoomsAction prints the rooms the user belongs to.
func listRoomsAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		id, err := e.identity(ctx.Context)
		if err != nil {
			return err
		}

		rooms, err := e.rooms.ListMyRooms(ctx.Context, id.UserID)
		if err != nil {
			return err
		}

		if ctx.Bool("json") {
			return printJSON(config.Stdout, rooms)
		}

		if !hasRows(len(rooms), noRoomsMsg) {
			return nil
		}

		var activeID string
		if r, err := e.activeRoom(ctx.Context); err == nil {
			activeID = r.ID
		}

		printRoomsTable(config.Stdout, rooms, activeID)

		return nil
	})
}

// createRoomAction creates a room and makes it active.
func createRoomAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		id, err := e.identity(ctx.Context)
		if err != nil {
			return err
		}

		name := strings.Join(ctx.Args().Slice(), " ")
		if name == "" {
			name, err = promptRoomName()
			if err != nil {
				return err
			}
		}

		r, err := e.rooms.CreateRoom(ctx.Context, name, id.UserID)
		if err != nil {
			return err
		}

		report.RoomSelected(r.Name)

		return nil
	})
}

// selectRoomAction makes one of the user's rooms active.
func selectRoomAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		id, err := e.identity(ctx.Context)
		if err != nil {
			return err
		}

		query := strings.Join(ctx.Args().Slice(), " ")
		if query == "" {
			r, err := chooseRoom(ctx.Context, e, id)
			if err != nil {
				return err
			}

			report.RoomSelected(r.Name)

			return nil
		}

		rooms, err := e.rooms.ListMyRooms(ctx.Context, id.UserID)
		if err != nil {
			return err
		}

		r, ok := findRoom(rooms, query)
		if !ok {
			return errRoomNotFound.Fmt(query)
		}

		err = e.rooms.SelectRoom(ctx.Context, r.ID, r.Name)
		if err != nil {
			return err
		}

		report.RoomSelected(r.Name)

		return nil
	})
}

// exitRoomAction removes the user's membership of the active room.
func exitRoomAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		id, err := e.identity(ctx.Context)
		if err != nil {
			return err
		}

		r, err := e.activeRoom(ctx.Context)
		if err != nil {
			return err
		}

		if !ctx.Bool("yes") {
			ok, err := confirm("Leave " + r.Name + "?")
			if err != nil || !ok {
				return err
			}
		}

		err = e.rooms.ExitRoom(ctx.Context, r.ID, id.UserID)
		if err != nil {
			return err
		}

		report.RoomLeft(r.Name)

		return nil
	})
}

// membersAction prints the roster of the active room.
func membersAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		id, err := e.identity(ctx.Context)
		if err != nil {
			return err
		}

		r, err := e.activeRoom(ctx.Context)
		if err != nil {
			return err
		}

		members, err := e.rooms.ListMembers(ctx.Context, r.ID)
		if err != nil {
			return err
		}

		list := room.SortMembers(members)

		if ctx.Bool("json") {
			return printJSON(config.Stdout, list)
		}

		printMembersTable(config.Stdout, list, id.UserID)

		return nil
	})
}

// inviteAction invites one or more emails to the active room.
func inviteAction(ctx *cli.Context) error {
	emails := ctx.Args().Slice()
	if len(emails) == 0 {
		return errInviteEmail
	}

	return withEnv(ctx, func(e *env) error {
		id, err := e.identity(ctx.Context)
		if err != nil {
			return err
		}

		r, err := e.activeRoom(ctx.Context)
		if err != nil {
			return err
		}

		for _, email := range emails {
			inv, err := e.rooms.SendInvite(ctx.Context, r.ID, id.UserID, email)
			if err != nil {
				return err
			}

			report.InviteSent(inv.ToUserEmail, r.Name)
		}

		return nil
	})
}
