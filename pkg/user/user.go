package user

// User is an account identified by a unique email. Uid is the stable public
// identifier exposed to clients; Id is the internal database key.
type User struct {
	Id           int
	Uid          string
	Email        string
	Nickname     string
	PasswordHash string
}
