package httpapi

import (
	"regexp"

	"github.com/mlukyanov/userd/internal/common"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	GitID    string `json:"git_id"`
	Avatar   string `json:"avatar"`
	Twitter  string `json:"twitter"`
}

func (r *registerRequest) Validate() error {
	if len(r.Username) < 2 {
		return &common.ValidationError{Field: "username", Reason: "must be at least 2 characters"}
	}
	if !emailPattern.MatchString(r.Email) {
		return &common.ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if r.GitID != "" && len(r.GitID) < 2 {
		return &common.ValidationError{Field: "git_id", Reason: "must be at least 2 characters"}
	}
	if r.Password == "" {
		return &common.ValidationError{Field: "password", Reason: "must not be empty"}
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) Validate() error {
	if r.Email == "" {
		return &common.ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if r.Password == "" {
		return &common.ValidationError{Field: "password", Reason: "must not be empty"}
	}
	return nil
}

type updateRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Avatar   *string `json:"avatar"`
	Twitter  *string `json:"twitter"`
}

func (r *updateRequest) Validate() error {
	if r.Username != nil && len(*r.Username) < 2 {
		return &common.ValidationError{Field: "username", Reason: "must be at least 2 characters"}
	}
	if r.Email != nil && !emailPattern.MatchString(*r.Email) {
		return &common.ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if r.Password != nil && *r.Password == "" {
		return &common.ValidationError{Field: "password", Reason: "must not be empty"}
	}
	return nil
}

type onboardRequest struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

func (r *onboardRequest) Validate() error {
	if r.AccessToken == "" {
		return &common.ValidationError{Field: "access_token", Reason: "must not be empty"}
	}
	if !emailPattern.MatchString(r.Email) {
		return &common.ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if r.Password == "" {
		return &common.ValidationError{Field: "password", Reason: "must not be empty"}
	}
	return nil
}

type walletRequest struct {
	Delta int64 `json:"delta"`
}
