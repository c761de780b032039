package workers

import (
	"context"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"beepit/domain"
	"beepit/errors"
)

func startDirectory(t *testing.T) chan domain.DirectoryCommand {
	t.Helper()
	commands := make(chan domain.DirectoryCommand, 16)
	worker := NewDirectoryWorker(commands, logs.GetLoggerFromLevel(slog.LevelError))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = worker.Run(ctx) }()
	return commands
}

func askDirectory(t *testing.T, commands chan domain.DirectoryCommand, build func(chan domain.DirectoryResponse) domain.DirectoryCommand) domain.DirectoryResponse {
	t.Helper()
	reply := make(chan domain.DirectoryResponse, 1)
	commands <- build(reply)
	return <-reply
}

func register(t *testing.T, commands chan domain.DirectoryCommand, username, password string) domain.DirectoryResponse {
	return askDirectory(t, commands, func(reply chan domain.DirectoryResponse) domain.DirectoryCommand {
		return domain.RegisterUser{Username: username, Password: password, ReplyTo: reply}
	})
}

func login(t *testing.T, commands chan domain.DirectoryCommand, username, password string) domain.DirectoryResponse {
	return askDirectory(t, commands, func(reply chan domain.DirectoryResponse) domain.DirectoryCommand {
		return domain.LoginUser{Username: username, Password: password, ReplyTo: reply}
	})
}

func TestDirectory_SeedsDemoAccounts(t *testing.T) {
	req := require.New(t)
	commands := startDirectory(t)

	resp := askDirectory(t, commands, func(reply chan domain.DirectoryResponse) domain.DirectoryCommand {
		return domain.GetAllUsers{ReplyTo: reply}
	})

	users, ok := resp.(domain.AllUsers)
	req.True(ok)
	req.Len(users.Users, 5)
	usernames := lo.Map(users.Users, func(u domain.AppUser, _ int) string { return u.Username })
	req.ElementsMatch([]string{"Alice", "Bob", "Charlie", "Diana", "Eve"}, usernames)
	for _, user := range users.Users {
		req.False(user.Online)
		req.Empty(user.ContactIDs)
	}
}

func TestDirectory_Register_UsernameIsCaseInsensitivelyUnique(t *testing.T) {
	req := require.New(t)
	commands := startDirectory(t)

	// Given a registered user with mixed casing
	resp := register(t, commands, "MixedCase", "secret")
	registered, ok := resp.(domain.UserRegistered)
	req.True(ok)
	// Stored original preserves casing
	req.Equal("MixedCase", registered.User.Username)

	// When registering any case variant
	resp = register(t, commands, "mixedcase", "other")

	// Then the registration conflicts
	errResp, ok := resp.(domain.DirectoryError)
	req.True(ok)
	req.ErrorIs(errResp.Err, errors.ErrUsernameTaken)
}

func TestDirectory_Login_Scenario(t *testing.T) {
	req := require.New(t)
	commands := startDirectory(t)

	// Given Zoe registered with secret1
	resp := register(t, commands, "Zoe", "secret1")
	req.IsType(domain.UserRegistered{}, resp)

	// When logging in with a lowercase variant
	resp = login(t, commands, "zoe", "secret1")

	// Then login succeeds and flips the online flag
	loggedIn, ok := resp.(domain.UserLoggedIn)
	req.True(ok)
	req.True(loggedIn.User.Online)
	req.Equal("Zoe", loggedIn.User.Username)
}

func TestDirectory_Login_Failures(t *testing.T) {
	req := require.New(t)
	commands := startDirectory(t)
	register(t, commands, "Zoe", "secret1")

	// Wrong secret for an existing username
	resp := login(t, commands, "zoe", "wrong")
	errResp, ok := resp.(domain.DirectoryError)
	req.True(ok)
	req.ErrorIs(errResp.Err, errors.ErrInvalidCredentials)

	// Absent username
	resp = login(t, commands, "nobody", "secret1")
	errResp, ok = resp.(domain.DirectoryError)
	req.True(ok)
	req.ErrorIs(errResp.Err, errors.ErrUserNotFound)
}

func TestDirectory_AddContact_IsDirected(t *testing.T) {
	req := require.New(t)
	commands := startDirectory(t)

	zoe := register(t, commands, "Zoe", "secret1").(domain.UserRegistered).User
	yann := register(t, commands, "Yann", "secret2").(domain.UserRegistered).User

	// When Zoe adds Yann
	resp := askDirectory(t, commands, func(reply chan domain.DirectoryResponse) domain.DirectoryCommand {
		return domain.AddContact{UserID: zoe.UserID, ContactID: yann.UserID, ReplyTo: reply}
	})
	req.IsType(domain.ContactAdded{}, resp)

	// Then Zoe's contacts include Yann
	contacts := askDirectory(t, commands, func(reply chan domain.DirectoryResponse) domain.DirectoryCommand {
		return domain.GetContacts{UserID: zoe.UserID, ReplyTo: reply}
	}).(domain.ContactList)
	req.Len(contacts.Contacts, 1)
	req.Equal(yann.UserID, contacts.Contacts[0].UserID)
	req.Equal(domain.ContactStatus, contacts.Contacts[0].Status)

	// And the reverse edge was not added
	contacts = askDirectory(t, commands, func(reply chan domain.DirectoryResponse) domain.DirectoryCommand {
		return domain.GetContacts{UserID: yann.UserID, ReplyTo: reply}
	}).(domain.ContactList)
	req.Empty(contacts.Contacts)

	// And adding the same contact twice conflicts
	resp = askDirectory(t, commands, func(reply chan domain.DirectoryResponse) domain.DirectoryCommand {
		return domain.AddContact{UserID: zoe.UserID, ContactID: yann.UserID, ReplyTo: reply}
	})
	errResp, ok := resp.(domain.DirectoryError)
	req.True(ok)
	req.ErrorIs(errResp.Err, errors.ErrAlreadyContact)
}

func TestDirectory_AddContact_UnknownIDs(t *testing.T) {
	req := require.New(t)
	commands := startDirectory(t)
	zoe := register(t, commands, "Zoe", "secret1").(domain.UserRegistered).User

	resp := askDirectory(t, commands, func(reply chan domain.DirectoryResponse) domain.DirectoryCommand {
		return domain.AddContact{UserID: zoe.UserID, ContactID: "ghost", ReplyTo: reply}
	})
	errResp, ok := resp.(domain.DirectoryError)
	req.True(ok)
	req.ErrorIs(errResp.Err, errors.ErrUserNotFound)
}

func TestDirectory_SetUserOnline(t *testing.T) {
	req := require.New(t)
	commands := startDirectory(t)
	zoe := register(t, commands, "Zoe", "secret1").(domain.UserRegistered).User

	// Presence change is fire-and-forget; the mailbox serializes it before
	// the following lookup.
	commands <- domain.SetUserOnline{UserID: zoe.UserID, Online: true}

	resp := askDirectory(t, commands, func(reply chan domain.DirectoryResponse) domain.DirectoryCommand {
		return domain.GetUser{UserID: zoe.UserID, ReplyTo: reply}
	})
	found, ok := resp.(domain.UserFound)
	req.True(ok)
	req.True(found.User.Online)

	// Unknown ids are silently ignored
	commands <- domain.SetUserOnline{UserID: "ghost", Online: true}
	resp = askDirectory(t, commands, func(reply chan domain.DirectoryResponse) domain.DirectoryCommand {
		return domain.GetUser{UserID: "ghost", ReplyTo: reply}
	})
	errResp, ok := resp.(domain.DirectoryError)
	req.True(ok)
	req.ErrorIs(errResp.Err, errors.ErrUserNotFound)
}

func TestDirectory_GetContacts_DropsDanglingIDs(t *testing.T) {
	req := require.New(t)
	worker := NewDirectoryWorker(make(chan domain.DirectoryCommand), logs.GetLoggerFromLevel(slog.LevelError))

	// Given a user whose contact list carries an id that no longer resolves
	user := domain.NewAppUser("Zoe", "secret1")
	user.ContactIDs = []string{"ghost"}
	worker.usersByID[user.UserID] = user

	reply := make(chan domain.DirectoryResponse, 1)
	worker.handle(domain.GetContacts{UserID: user.UserID, ReplyTo: reply})

	// Then the dangling id is silently dropped
	contacts := (<-reply).(domain.ContactList)
	req.Empty(contacts.Contacts)
}
