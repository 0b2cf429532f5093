package services

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mlukyanov/userd/internal/common"
	"github.com/mlukyanov/userd/internal/server/auth"
	"github.com/mlukyanov/userd/internal/server/models"
)

// avatarURL derives a stable placeholder avatar from the account email when
// none is set. Same addressing scheme gravatar uses, so existing clients
// render it without extra work; no network access is involved here.
func avatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon", hex.EncodeToString(sum[:]))
}

// toProfile projects a stored account onto its public view: only the
// allow-listed fields survive, so the password hash cannot leak. When
// withToken is set, existingToken is reused if the caller supplied one,
// otherwise a fresh token is minted.
func (s *UserService) toProfile(user *models.User, withToken bool, existingToken string) (*models.Profile, error) {
	p := &models.Profile{
		ID:       user.ID,
		Username: user.Username,
		GitID:    user.GitID,
		Email:    user.Email,
		Twitter:  user.Twitter,
		Avatar:   user.Avatar,
	}

	if p.Avatar == "" {
		p.Avatar = avatarURL(user.Email)
	}

	if withToken {
		if existingToken != "" {
			p.Token = existingToken
		} else {
			token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.tokenValidity)
			if err != nil {
				return nil, common.ErrInternal
			}
			p.Token = token
		}
	}

	return p, nil
}
