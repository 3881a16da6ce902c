package app

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/focusroom/internal/apperr"
	"github.com/ayoisaiah/focusroom/internal/config"
	"github.com/ayoisaiah/focusroom/internal/identity"
	"github.com/ayoisaiah/focusroom/internal/room"
	"github.com/ayoisaiah/focusroom/internal/timeutil"
	"github.com/ayoisaiah/focusroom/report"
)

var (
	errInviteNotFound = apperr.Validation("no pending invitation with id %q")
	errInvalidSince   = apperr.Validation("invalid --since value: %s")
)

// filterSince drops invitations created before since.
func filterSince(invites []room.IncomingInvite, since time.Time) []room.IncomingInvite {
	if since.IsZero() {
		return invites
	}

	result := make([]room.IncomingInvite, 0, len(invites))

	for _, inv := range invites {
		if !inv.CreatedAt.Before(since) {
			result = append(result, inv)
		}
	}

	return result
}

// chooseInvite returns the pending invitation with the given id, or asks
// the user to pick one when id is empty.
func chooseInvite(
	ctx context.Context,
	e *env,
	id identity.Identity,
	inviteID string,
) (room.IncomingInvite, bool, error) {
	invites, err := e.rooms.ListIncomingInvites(ctx, id.Email)
	if err != nil {
		return room.IncomingInvite{}, false, err
	}

	if !hasRows(len(invites), noInvitesMsg) {
		return room.IncomingInvite{}, false, nil
	}

	if inviteID == "" {
		inv, err := pickInvite(invites)
		if err != nil {
			return room.IncomingInvite{}, false, err
		}

		return inv, true, nil
	}

	for _, inv := range e.rooms.Pending() {
		if inv.ID == inviteID {
			return inv, true, nil
		}
	}

	return room.IncomingInvite{}, false, errInviteNotFound.Fmt(inviteID)
}

// listInvitesAction prints the pending invitations addressed to the user.
func listInvitesAction(ctx *cli.Context) error {
	var since time.Time

	if s := ctx.String("since"); s != "" {
		t, err := timeutil.FromStr(s, time.Now())
		if err != nil {
			return errInvalidSince.Fmt(err.Error())
		}

		since = t
	}

	return withEnv(ctx, func(e *env) error {
		id, err := e.identity(ctx.Context)
		if err != nil {
			return err
		}

		invites, err := e.rooms.ListIncomingInvites(ctx.Context, id.Email)
		if err != nil {
			return err
		}

		invites = filterSince(invites, since)

		if ctx.Bool("json") {
			return printJSON(config.Stdout, invites)
		}

		if !hasRows(len(invites), noInvitesMsg) {
			return nil
		}

		printInvitesTable(config.Stdout, invites)

		return nil
	})
}

// acceptInviteAction joins the room of an invitation.
func acceptInviteAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		id, err := e.identity(ctx.Context)
		if err != nil {
			return err
		}

		inv, ok, err := chooseInvite(ctx.Context, e, id, ctx.Args().First())
		if err != nil || !ok {
			return err
		}

		err = e.rooms.AcceptInvite(ctx.Context, inv, id.UserID)
		if err != nil {
			return err
		}

		if r, ok := e.rooms.Active(); ok && r.ID == inv.RoomID {
			report.RoomSelected(inv.RoomName)
			return nil
		}

		report.InviteAccepted(inv.RoomName)

		return nil
	})
}

// rejectInviteAction declines an invitation.
func rejectInviteAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		id, err := e.identity(ctx.Context)
		if err != nil {
			return err
		}

		inv, ok, err := chooseInvite(ctx.Context, e, id, ctx.Args().First())
		if err != nil || !ok {
			return err
		}

		err = e.rooms.RejectInvite(ctx.Context, inv)
		if err != nil {
			return err
		}

		report.InviteRejected(inv.RoomName)

		return nil
	})
}
