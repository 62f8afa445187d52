package errors

import "fmt"

var (
	ErrWorkerPanic          = fmt.Errorf("worker panic")
	ErrUnknownConversation  = fmt.Errorf("conversation does not exist")
	ErrUnknownContact       = fmt.Errorf("contact does not exist")
	ErrUnknownAccount       = fmt.Errorf("account does not exist")
	ErrInvalidCommand       = fmt.Errorf("invalid command")
	ErrInvalidDestination   = fmt.Errorf("malformed destination")
	ErrNonPositiveAmount    = fmt.Errorf("amount must be strictly positive")
	ErrInvalidToken         = fmt.Errorf("invalid or expired token")
	ErrTokenGeneration      = fmt.Errorf("unable to generate token")
	ErrEmptyRules           = fmt.Errorf("rule set contains no keywords")
	ErrMessageAlreadyRouted = fmt.Errorf("message channel already set")
)
