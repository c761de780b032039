package workers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"beepit/domain"
	"beepit/errors"
)

// seedUsernames are fixed demo accounts created at startup with a shared
// known secret and no contacts. Test-fixture behavior, not a security model.
var seedUsernames = []string{"Alice", "Bob", "Charlie", "Diana", "Eve"}

const seedPassword = "password123"

// DirectoryWorker is the single logical owner of all user records. It drains
// its command channel one request at a time, so every operation on the user
// maps is linearizable without locks.
type DirectoryWorker struct {
	commands          chan domain.DirectoryCommand
	usersByID         map[string]domain.AppUser
	userIDsByUsername map[string]string
	log               *slog.Logger
}

func NewDirectoryWorker(commands chan domain.DirectoryCommand, log *slog.Logger) *DirectoryWorker {
	w := &DirectoryWorker{
		commands:          commands,
		usersByID:         make(map[string]domain.AppUser),
		userIDsByUsername: make(map[string]string),
		log:               log,
	}
	w.seedDemoAccounts()
	return w
}

func (w *DirectoryWorker) seedDemoAccounts() {
	for _, username := range seedUsernames {
		user := domain.NewAppUser(username, seedPassword)
		w.usersByID[user.UserID] = user
		w.userIDsByUsername[strings.ToLower(username)] = user.UserID
	}
}

func (w *DirectoryWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping directory worker")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				return nil
			}
			w.handle(cmd)
		}
	}
}

func (w *DirectoryWorker) handle(cmd domain.DirectoryCommand) {
	switch c := cmd.(type) {
	case domain.RegisterUser:
		c.ReplyTo <- w.onRegister(c)
	case domain.LoginUser:
		c.ReplyTo <- w.onLogin(c)
	case domain.GetUser:
		c.ReplyTo <- w.onGetUser(c)
	case domain.GetAllUsers:
		c.ReplyTo <- domain.AllUsers{Users: lo.Values(w.usersByID)}
	case domain.AddContact:
		c.ReplyTo <- w.onAddContact(c)
	case domain.GetContacts:
		c.ReplyTo <- w.onGetContacts(c)
	case domain.SetUserOnline:
		w.onSetOnline(c)
	}
}

func (w *DirectoryWorker) onRegister(cmd domain.RegisterUser) domain.DirectoryResponse {
	usernameLower := strings.ToLower(cmd.Username)
	if _, taken := w.userIDsByUsername[usernameLower]; taken {
		return domain.DirectoryError{Err: errors.ErrUsernameTaken}
	}

	user := domain.NewAppUser(cmd.Username, cmd.Password)
	w.usersByID[user.UserID] = user
	w.userIDsByUsername[usernameLower] = user.UserID
	w.log.Info("User registered", "userId", user.UserID, "username", user.Username)
	return domain.UserRegistered{User: user}
}

func (w *DirectoryWorker) onLogin(cmd domain.LoginUser) domain.DirectoryResponse {
	userID, ok := w.userIDsByUsername[strings.ToLower(cmd.Username)]
	if !ok {
		return domain.DirectoryError{Err: errors.ErrUserNotFound}
	}

	user := w.usersByID[userID]
	if user.Password != cmd.Password {
		return domain.DirectoryError{Err: errors.ErrInvalidCredentials}
	}

	user.Online = true
	w.usersByID[userID] = user
	return domain.UserLoggedIn{User: user}
}

func (w *DirectoryWorker) onGetUser(cmd domain.GetUser) domain.DirectoryResponse {
	user, ok := w.usersByID[cmd.UserID]
	if !ok {
		return domain.DirectoryError{Err: errors.ErrUserNotFound}
	}
	return domain.UserFound{User: user}
}

func (w *DirectoryWorker) onAddContact(cmd domain.AddContact) domain.DirectoryResponse {
	user, userOk := w.usersByID[cmd.UserID]
	_, contactOk := w.usersByID[cmd.ContactID]
	if !userOk || !contactOk {
		return domain.DirectoryError{Err: errors.ErrUserNotFound}
	}

	if lo.Contains(user.ContactIDs, cmd.ContactID) {
		return domain.DirectoryError{Err: errors.ErrAlreadyContact}
	}

	// Directed edge: the reverse contact is never added automatically.
	user.ContactIDs = append(append([]string{}, user.ContactIDs...), cmd.ContactID)
	w.usersByID[cmd.UserID] = user
	return domain.ContactAdded{UserID: cmd.UserID, ContactID: cmd.ContactID}
}

func (w *DirectoryWorker) onGetContacts(cmd domain.GetContacts) domain.DirectoryResponse {
	user, ok := w.usersByID[cmd.UserID]
	if !ok {
		return domain.DirectoryError{Err: errors.ErrUserNotFound}
	}

	// Dangling contact ids are silently dropped.
	contacts := lo.FilterMap(user.ContactIDs, func(id string, _ int) (domain.Contact, bool) {
		contact, exists := w.usersByID[id]
		if !exists {
			return domain.Contact{}, false
		}
		return domain.Contact{
			UserID:   contact.UserID,
			Username: contact.Username,
			Status:   domain.ContactStatus,
			Online:   contact.Online,
		}, true
	})
	return domain.ContactList{Contacts: contacts}
}

func (w *DirectoryWorker) onSetOnline(cmd domain.SetUserOnline) {
	user, ok := w.usersByID[cmd.UserID]
	if !ok {
		return
	}
	user.Online = cmd.Online
	w.usersByID[cmd.UserID] = user
}
