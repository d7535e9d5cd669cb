package view

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
)

const gravatarBaseURL = "https://www.gravatar.com/avatar/"

// GravatarOptions controls the avatar image requested from gravatar.com.
type GravatarOptions struct {
	Size    int
	Rating  string
	Default string
}

// DefaultGravatar 评论头像的默认参数
var DefaultGravatar = GravatarOptions{Size: 100, Rating: "g", Default: "retro"}

// URL builds the avatar address for email.
func (o GravatarOptions) URL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))

	query := url.Values{}
	if o.Size > 0 {
		query.Set("s", strconv.Itoa(o.Size))
	}
	if o.Default != "" {
		query.Set("d", o.Default)
	}
	if o.Rating != "" {
		query.Set("r", o.Rating)
	}

	avatar := gravatarBaseURL + hex.EncodeToString(sum[:])
	if encoded := query.Encode(); encoded != "" {
		avatar += "?" + encoded
	}
	return avatar
}

// Gravatar returns the comment avatar URL for email.
func Gravatar(email string) string {
	return DefaultGravatar.URL(email)
}
