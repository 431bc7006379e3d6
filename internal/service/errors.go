package service

import "errors"

var (
	ErrInvalidUserID    = errors.New("invalid user ID")
	ErrFollowSelf       = errors.New("you cannot follow yourself")
	ErrUserNotFound     = errors.New("user not found")
	ErrAlreadyFollowing = errors.New("you are already following this user")
	ErrNotFollowing     = errors.New("you are not following this user")

	ErrEmptyContent       = errors.New("content is required")
	ErrContentTooLong     = errors.New("content too long")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooLong    = errors.New("password too long")
)
