package application

import "github.com/google/uuid"

type RoomID string

func NewRoomID() RoomID {
	return RoomID("room-" + uuid.NewString())
}

// Room は2人を対戦させるためのペアリング待機枠です。
// 参加順は保持され、そのままゲームのターン順の種になります。
type Room struct {
	ID    RoomID
	users []*User
}

func NewRoom() *Room {
	return &Room{ID: NewRoomID()}
}

// AddUser はユーザを追加します。既に参加済みの場合は何もしません（冪等）。
// 満室への追加は黙って拒否します（先着2名のみ有効）。
func (r *Room) AddUser(user *User) {
	if r.HasUser(user.ID) {
		return
	}
	if r.IsFull() {
		return
	}
	r.users = append(r.users, user)
}

func (r *Room) HasUser(id UserID) bool {
	for _, u := range r.users {
		if u.ID == id {
			return true
		}
	}
	return false
}

func (r *Room) IsFull() bool {
	return len(r.users) == 2
}

func (r *Room) Users() []*User {
	return r.users
}

// RoomRegistry はオープンルーム（2人に満たないルーム）の台帳です。
// 排他制御は呼び出し側（Battleship）が行います。
type RoomRegistry struct {
	rooms map[RoomID]*Room
	order []RoomID
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[RoomID]*Room),
	}
}

// Create は空のルームを作成し、直ちにuserを追加します。
func (r *RoomRegistry) Create(user *User) *Room {
	room := NewRoom()
	room.AddUser(user)
	r.rooms[room.ID] = room
	r.order = append(r.order, room.ID)
	return room
}

func (r *RoomRegistry) Get(id RoomID) (*Room, bool) {
	room, ok := r.rooms[id]
	return room, ok
}

// Remove はルームを台帳から外します。満室になった瞬間に呼ばれます。
func (r *RoomRegistry) Remove(id RoomID) {
	delete(r.rooms, id)
}

// RemoveWithUser は指定ユーザが参加している全ルームを外します。
// 切断時の後始末に使います。
func (r *RoomRegistry) RemoveWithUser(id UserID) bool {
	removed := false
	for roomID, room := range r.rooms {
		if room.HasUser(id) {
			delete(r.rooms, roomID)
			removed = true
		}
	}
	return removed
}

// Open は作成順のオープンルーム一覧を返します。
func (r *RoomRegistry) Open() []*Room {
	open := make([]*Room, 0, len(r.rooms))
	for _, id := range r.order {
		if room, ok := r.rooms[id]; ok {
			open = append(open, room)
		}
	}
	return open
}
