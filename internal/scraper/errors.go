package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
)

type ErrorKind string

const (
	KindNetwork ErrorKind = "network"
	KindParse   ErrorKind = "parse"
	KindTimeout ErrorKind = "timeout"
)

// ScrapeError is a source-local failure. It never aborts a crawl cycle;
// the orchestrator converts it into a failure outcome for its source.
type ScrapeError struct {
	Source string
	Kind   ErrorKind
	Err    error
}

func (e *ScrapeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("scrape %s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *ScrapeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func networkErr(source string, err error) error {
	return &ScrapeError{Source: source, Kind: classify(err), Err: err}
}

func parseErr(source string, err error) error {
	return &ScrapeError{Source: source, Kind: KindParse, Err: err}
}

func classify(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}

// KindOf reports the kind of a scrape failure, treating context
// deadline expiry from the orchestrator's per-source timeout as a
// timeout even when the adapter returned a bare error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Kind
	}
	return classify(err)
}
