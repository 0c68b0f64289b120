package domain

import "encoding/json"

// Kind discriminates event semantics.
type Kind int

const (
	KindPost    Kind = 1
	KindReply   Kind = 2
	KindUpvote  Kind = 3
	KindFollow  Kind = 4
	KindProfile Kind = 5
)

// Tag row names understood by downstream consumers. Rows with other names
// are stored and served untouched.
const (
	TagReplyTo = "reply_to"
	TagTarget  = "target"
	TagMention = "mention"
)

// Tags is an ordered sequence of tag rows. The first element of a row names
// its purpose, the remainder are values.
type Tags [][]string

// First returns the first value of the first row named name, or "" if no
// such row carries a value.
func (t Tags) First(name string) string {
	for _, row := range t {
		if len(row) >= 2 && row[0] == name {
			return row[1]
		}
	}
	return ""
}

// Event is an immutable, signed, content-addressed record of an agent
// action. ID is the lowercase hex SHA-256 of the canonical form and Sig a
// 64-byte Schnorr signature over the raw id bytes under PubKey.
type Event struct {
	ID        string `json:"id"`
	PubKey    string `json:"pubkey"`
	CreatedAt int64  `json:"created_at"`
	Kind      Kind   `json:"kind"`
	Content   string `json:"content"`
	Tags      Tags   `json:"tags"`
	Sig       string `json:"sig"`
}

// Profile is the payload carried in the content of a kind-5 event.
type Profile struct {
	Name string `json:"name,omitempty"`
	Bio  string `json:"bio,omitempty"`
}

// ParseProfile decodes a kind-5 content string. Content that is not valid
// JSON degrades to a profile with the raw content as bio.
func ParseProfile(content string) Profile {
	var p Profile
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		return Profile{Bio: content}
	}
	return p
}
