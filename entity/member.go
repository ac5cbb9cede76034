package entity

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

type MemberStatus string

const (
	MemberStatusSubscribed    MemberStatus = "subscribed"
	MemberStatusUnsubscribed  MemberStatus = "unsubscribed"
	MemberStatusCleaned       MemberStatus = "cleaned"
	MemberStatusPending       MemberStatus = "pending"
	MemberStatusTransactional MemberStatus = "transactional"
)

var MemberStatuses = []string{
	string(MemberStatusSubscribed),
	string(MemberStatusUnsubscribed),
	string(MemberStatusCleaned),
	string(MemberStatusPending),
	string(MemberStatusTransactional),
}

// Member is a mailing list contact as submitted by a client. The mailing
// list owns its storage; Member only lives for one request.
type Member struct {
	EmailAddress string
	Status       MemberStatus
	MergeFields  map[string]string
	Tags         []string
	ListID       string
	Datacenter   string
}

func (m *Member) HasTags() bool {
	return m != nil && len(m.Tags) > 0
}

// SubscriberHash is the md5 hex digest of the lower-cased email address,
// the key the mailing list uses for member resources.
func (m *Member) SubscriberHash() string {
	return SubscriberHash(m.EmailAddress)
}

func SubscriberHash(emailAddress string) string {
	hFn := md5.New()
	hFn.Write([]byte(strings.ToLower(emailAddress)))
	return hex.EncodeToString(hFn.Sum(nil))
}
