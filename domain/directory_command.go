package domain

// DirectoryCommand is the closed request union of the user directory.
// Each command names exactly one response or an error outcome; replies are
// delivered on the command's buffered ReplyTo channel.
type DirectoryCommand interface {
	directoryCommand()
}

// DirectoryResponse is the closed response union of the user directory.
type DirectoryResponse interface {
	directoryResponse()
}

type RegisterUser struct {
	Username string
	Password string
	ReplyTo  chan DirectoryResponse
}

type LoginUser struct {
	Username string
	Password string
	ReplyTo  chan DirectoryResponse
}

type GetUser struct {
	UserID  string
	ReplyTo chan DirectoryResponse
}

type GetAllUsers struct {
	ReplyTo chan DirectoryResponse
}

type AddContact struct {
	UserID    string
	ContactID string
	ReplyTo   chan DirectoryResponse
}

type GetContacts struct {
	UserID  string
	ReplyTo chan DirectoryResponse
}

// SetUserOnline is fire-and-forget: it carries no reply channel and silently
// no-ops on an unknown user id.
type SetUserOnline struct {
	UserID string
	Online bool
}

func (RegisterUser) directoryCommand()  {}
func (LoginUser) directoryCommand()     {}
func (GetUser) directoryCommand()       {}
func (GetAllUsers) directoryCommand()   {}
func (AddContact) directoryCommand()    {}
func (GetContacts) directoryCommand()   {}
func (SetUserOnline) directoryCommand() {}

type UserRegistered struct {
	User AppUser
}

type UserLoggedIn struct {
	User AppUser
}

type UserFound struct {
	User AppUser
}

type AllUsers struct {
	Users []AppUser
}

type ContactAdded struct {
	UserID    string
	ContactID string
}

type ContactList struct {
	Contacts []Contact
}

type DirectoryError struct {
	Err error
}

func (UserRegistered) directoryResponse() {}
func (UserLoggedIn) directoryResponse()   {}
func (UserFound) directoryResponse()      {}
func (AllUsers) directoryResponse()       {}
func (ContactAdded) directoryResponse()   {}
func (ContactList) directoryResponse()    {}
func (DirectoryError) directoryResponse() {}
