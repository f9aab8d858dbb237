package domain

import "errors"

var (
	ErrUsernameTaken     = errors.New("username is already taken")
	ErrUnknownSender     = errors.New("sender connection is not registered")
	ErrUnknownRecipient  = errors.New("recipient is not online")
	ErrMessageNotFound   = errors.New("message not found")
	ErrConnectionClosed  = errors.New("connection closed")
	ErrArchiveUnreadable = errors.New("archive payload unreadable")
)
