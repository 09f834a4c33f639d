package application

import (
	"fmt"

	"github.com/google/uuid"

	"broadside/server/domain"
)

type UserID string

func NewUserID() UserID {
	return UserID("user-" + uuid.NewString())
}

// User は登録済みの識別子です。表示名は登録中のユーザ間で一意です。
type User struct {
	ID      UserID
	Name    string
	Session domain.SessionID
}

// UserRegistry は登録済みユーザの台帳です。プロセス起動中のみ保持されます。
// 排他制御は呼び出し側（Battleship）が行います。
type UserRegistry struct {
	byName    map[string]*User
	bySession map[domain.SessionID]*User
}

func NewUserRegistry() *UserRegistry {
	return &UserRegistry{
		byName:    make(map[string]*User),
		bySession: make(map[domain.SessionID]*User),
	}
}

// Register は表示名の一意性を検証してユーザを登録します。
func (r *UserRegistry) Register(session domain.SessionID, name string) (*User, error) {
	if _, ok := r.byName[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	user := &User{
		ID:      NewUserID(),
		Name:    name,
		Session: session,
	}
	r.byName[name] = user
	r.bySession[session] = user
	return user, nil
}

func (r *UserRegistry) BySession(session domain.SessionID) (*User, bool) {
	user, ok := r.bySession[session]
	return user, ok
}

// Unregister はセッションに紐付くユーザを削除し、表示名を解放します。
func (r *UserRegistry) Unregister(session domain.SessionID) (*User, bool) {
	user, ok := r.bySession[session]
	if !ok {
		return nil, false
	}
	delete(r.bySession, session)
	delete(r.byName, user.Name)
	return user, true
}
