package fakerefreshrepo

import (
	"errors"
	"sync"

	"github.com/ebikepoint/erp/token/refresh"
)

var _ refresh.Repo = (*FakeRefreshTokenRepo)(nil)

type FakeRefreshTokenRepo struct {
	tokens  map[string]*refresh.StoredRefreshToken
	userIds map[string]string // user id to token
	lock    sync.RWMutex
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		tokens:  make(map[string]*refresh.StoredRefreshToken),
		userIds: make(map[string]string),
	}
}

func (r *FakeRefreshTokenRepo) Upsert(rt *refresh.StoredRefreshToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.tokens[rt.Token] = rt
	r.userIds[rt.UserID] = rt.Token
	return nil
}

func (r *FakeRefreshTokenRepo) Delete(token string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	rt, ok := r.tokens[token]
	if !ok {
		return errors.New("not found")
	}
	delete(r.userIds, rt.UserID)
	delete(r.tokens, token)
	return nil
}

func (r *FakeRefreshTokenRepo) Get(token string) (*refresh.StoredRefreshToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	rt, ok := r.tokens[token]
	if !ok {
		return nil, errors.New("not found")
	}
	return rt, nil
}

func (r *FakeRefreshTokenRepo) GetByUserID(userID string) (*refresh.StoredRefreshToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	token, ok := r.userIds[userID]
	if !ok {
		return nil, errors.New("not found")
	}
	return r.tokens[token], nil
}
