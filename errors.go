package ystocker

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrEmptyName     = errors.New("group name cannot be empty")
	ErrEmptyTicker   = errors.New("ticker symbol cannot be empty")
	ErrGroupExists   = errors.New("group already exists")
	ErrGroupNotFound = errors.New("group not found")
	ErrTickerExists  = errors.New("ticker already in group")
)

// FetchError reports that the data of a ticker could not be retrieved from
// the network, as opposed to the ticker being unknown.
type FetchError struct {
	Ticker string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("could not fetch data for %s: %v", e.Ticker, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
