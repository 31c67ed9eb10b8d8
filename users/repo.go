package users

type UserRepo interface {
	Upsert(user *User) error
	Delete(id string) error
	GetByEmail(email string) (*User, error)
	GetByID(id string) (*User, error)
	List(offset, limit int) ([]*User, error)
	ListByRole(role Role) ([]*User, error)
	ListByDealer(dealerID string) ([]*User, error)
	SetBlocked(id string, blocked bool) error
	SetApproved(id string, approved bool) error
}
