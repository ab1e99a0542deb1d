package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type account struct {
	role         string
	passwordHash []byte
}

// Accounts holds the operator logins configured through the environment.
// Passwords are hashed once at startup and never kept in clear.
type Accounts struct {
	byName map[string]account
}

// NewAccounts registers an admin and a cashier. An operator with an empty
// password is not registered.
func NewAccounts(adminUser, adminPassword, cashierUser, cashierPassword string) (*Accounts, error) {
	a := &Accounts{byName: make(map[string]account)}
	if err := a.add(adminUser, adminPassword, RoleAdmin); err != nil {
		return nil, err
	}
	if err := a.add(cashierUser, cashierPassword, RoleCashier); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Accounts) add(username, password, role string) error {
	if username == "" || password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.byName[username] = account{role: role, passwordHash: hash}
	return nil
}

func (a *Accounts) Len() int { return len(a.byName) }

// Authenticate returns the operator's role when the password matches.
func (a *Accounts) Authenticate(username, password string) (string, error) {
	acc, ok := a.byName[username]
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return acc.role, nil
}
