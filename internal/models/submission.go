package models

import (
	"time"
)

// Submission is one participant's entry for a bounty, keyed by wallet
type Submission struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	BountyID      string    `bson:"bountyId" json:"bounty_id"`
	WalletAddress string    `bson:"walletAddress" json:"wallet_address"`
	TwitterHandle string    `bson:"twitterHandle" json:"twitter_handle"`
	TweetLink     string    `bson:"tweetLink" json:"tweet_link"`
	ExtraInfo     string    `bson:"extraInfo,omitempty" json:"extra_info,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updated_at"`
}

// SubmissionPatch carries the owner-editable fields of a submission.
type SubmissionPatch struct {
	TwitterHandle *string
	TweetLink     *string
	ExtraInfo     *string
}

// Apply copies every present field onto s.
func (p SubmissionPatch) Apply(s *Submission) {
	if p.TwitterHandle != nil {
		s.TwitterHandle = *p.TwitterHandle
	}
	if p.TweetLink != nil {
		s.TweetLink = *p.TweetLink
	}
	if p.ExtraInfo != nil {
		s.ExtraInfo = *p.ExtraInfo
	}
}
