package application

import "errors"

var ErrInvalidTile = errors.New("tile coordinate out of range")
