package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound = errors.New("resource not found")

	// Card graph & draw errors
	ErrEmptyDrawablePool = errors.New("drawable card pool is empty")
	ErrAlreadyResolved   = errors.New("card prerequisites are already resolved")
	ErrCardNotFound      = errors.New("card not found")

	// Gameplay errors
	ErrNotReady       = errors.New("game is not loaded yet")
	ErrNotCurrentCard = errors.New("card is not the currently presented card")
	ErrInvalidSide    = errors.New("decision side must be left or right")
	ErrSessionClosed  = errors.New("game session is closed")

	// General Request/Server Errors
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidInput = errors.New("invalid input data")
)
