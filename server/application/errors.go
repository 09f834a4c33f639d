package application

import "errors"

var (
	ErrDuplicateName           = errors.New("display name is already registered")
	ErrUnknownUser             = errors.New("session has no registered user")
	ErrRoomNotFound            = errors.New("room not found")
	ErrGameNotFound            = errors.New("game not found")
	ErrTurnMismatch            = errors.New("it is not the attacker's turn")
	ErrInvalidFleetComposition = errors.New("fleet composition is invalid")
	ErrOutOfBounds             = errors.New("ship cell is out of bounds")
	ErrOverlapConflict         = errors.New("ship cells overlap")
	ErrGameAlreadyFinished     = errors.New("game is already finished")
	ErrGameNotInProgress       = errors.New("game is not in progress")
	ErrGameFull                = errors.New("game already has two players")
	ErrDuplicatePlayer         = errors.New("player is already in the game")
	ErrFleetAlreadyPlaced      = errors.New("fleet is already placed")
)
