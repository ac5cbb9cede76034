package handler

import (
	"context"
	"sync"

	"landing/dep"
	"landing/entity"
)

type fakeMailingList struct {
	mu      sync.Mutex
	upserts []*entity.Member
	tagged  []*entity.Member

	upsertErr error
	tagsErr   error
	upserted  chan *entity.Member
}

func newFakeMailingList() *fakeMailingList {
	return &fakeMailingList{
		upserted: make(chan *entity.Member, 10),
	}
}

func (f *fakeMailingList) UpsertMember(ctx context.Context, member *entity.Member) (*dep.MemberInfo, error) {
	f.mu.Lock()
	f.upserts = append(f.upserts, member)
	f.mu.Unlock()

	f.upserted <- member

	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	return &dep.MemberInfo{
		ID:           member.SubscriberHash(),
		EmailAddress: member.EmailAddress,
		Status:       string(member.Status),
	}, nil
}

func (f *fakeMailingList) AddMemberTags(_ context.Context, member *entity.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tagged = append(f.tagged, member)
	return f.tagsErr
}

func (f *fakeMailingList) Close(_ context.Context) error {
	return nil
}

func (f *fakeMailingList) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

func (f *fakeMailingList) tagCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tagged)
}
