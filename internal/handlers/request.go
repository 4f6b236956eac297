package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hosico-labs/bounty-backend/internal/models"
)

// flexID accepts an identifier sent either as a JSON string or a number.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number")
	}
	*id = flexID(n.String())
	return nil
}

var endDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// flexTime parses the date formats browsers produce for date and
// datetime-local inputs. Values without a zone are taken as UTC.
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("end_date must be a string")
	}
	s = strings.TrimSpace(s)
	for _, layout := range endDateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = flexTime(parsed.UTC())
			return nil
		}
	}
	return fmt.Errorf("end_date %q is not a recognised date", s)
}

// categoryRef accepts a category given as an object with an id or as a bare id.
type categoryRef flexID

func (c *categoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			ID flexID `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("category must carry an id")
		}
		*c = categoryRef(obj.ID)
		return nil
	}
	var id flexID
	if err := id.UnmarshalJSON(data); err != nil {
		return err
	}
	*c = categoryRef(id)
	return nil
}

// bountyFields is the bounty payload of create and update requests. Every
// field is a pointer so that update can tell absent from empty.
type bountyFields struct {
	ID            flexID               `json:"id"`
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	Requirements  *models.Requirements `json:"requirements"`
	CategoryID    *flexID              `json:"category_id"`
	Category      *categoryRef         `json:"category"`
	EndDate       *flexTime            `json:"end_date"`
	EndDateCamel  *flexTime            `json:"endDate"`
	Prizes        *models.PrizeLadder  `json:"prizes"`
	TokenSymbol   *string              `json:"token_symbol"`
	TokenAddress  *string              `json:"token_address"`
	IsCustomToken *bool                `json:"is_custom_token"`
}

func (f *bountyFields) patch() models.BountyPatch {
	p := models.BountyPatch{
		Title:         f.Title,
		Description:   f.Description,
		Requirements:  f.Requirements,
		Prizes:        f.Prizes,
		TokenSymbol:   f.TokenSymbol,
		TokenAddress:  f.TokenAddress,
		IsCustomToken: f.IsCustomToken,
	}
	switch {
	case f.CategoryID != nil:
		id := string(*f.CategoryID)
		p.CategoryID = &id
	case f.Category != nil:
		id := string(*f.Category)
		p.CategoryID = &id
	}
	endDate := f.EndDate
	if endDate == nil {
		endDate = f.EndDateCamel
	}
	if endDate != nil {
		end := time.Time(*endDate)
		p.EndDate = &end
	}
	return p
}

func (f *bountyFields) bounty() *models.Bounty {
	b := &models.Bounty{}
	f.patch().Apply(b)
	return b
}

type createBountyRequest struct {
	Bounty        *bountyFields `json:"bounty"`
	WalletAddress string        `json:"walletAddress"`
}

type updateBountyRequest struct {
	Bounty        *bountyFields `json:"bounty"`
	WalletAddress string        `json:"walletAddress"`
}

type deleteBountyRequest struct {
	BountyID      flexID `json:"bountyId"`
	WalletAddress string `json:"walletAddress"`
}

type selectWinnersRequest struct {
	BountyID      flexID            `json:"bountyId"`
	Winners       map[string]string `json:"winners"`
	WalletAddress string            `json:"walletAddress"`
}

type submissionFields struct {
	BountyID      flexID  `json:"bounty_id"`
	WalletAddress string  `json:"wallet_address"`
	TwitterHandle *string `json:"twitter_handle"`
	TweetLink     *string `json:"tweet_link"`
	ExtraInfo     *string `json:"extra_info"`
}

func (f *submissionFields) patch() models.SubmissionPatch {
	return models.SubmissionPatch{
		TwitterHandle: f.TwitterHandle,
		TweetLink:     f.TweetLink,
		ExtraInfo:     f.ExtraInfo,
	}
}

type findSubmissionRequest struct {
	BountyID      flexID `json:"bounty_id"`
	WalletAddress string `json:"wallet_address"`
}

type createSubmissionRequest struct {
	Submission *submissionFields `json:"submission"`
}

type updateSubmissionRequest struct {
	SubmissionID  flexID            `json:"submissionId"`
	Submission    *submissionFields `json:"submission"`
	WalletAddress string            `json:"walletAddress"`
}
