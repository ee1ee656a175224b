package domain

import (
	"fmt"
	"time"
)

type MalformedRecordError struct {
	Index int
	Field string
}

func (e MalformedRecordError) Error() string {
	return fmt.Sprintf("record %d is missing %s", e.Index, e.Field)
}

// ConversionProcessError reports a conversion that ran to completion but failed.
type ConversionProcessError struct {
	ExitCode    int
	Source      Locator
	Destination Locator
	Reason      string
}

func (e ConversionProcessError) Error() string {
	msg := fmt.Sprintf("conversion of %s to %s exited with code %d", e.Source, e.Destination, e.ExitCode)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

type TimeoutError struct {
	Timeout     time.Duration
	Source      Locator
	Destination Locator
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("conversion of %s to %s did not finish within %s", e.Source, e.Destination, e.Timeout)
}

type LocatorError struct {
	Scheme string
	Bucket string
	Key    string
	reason string
}

func (e LocatorError) Error() string {
	return fmt.Sprintf("invalid locator scheme=%q bucket=%q key=%q: %s", e.Scheme, e.Bucket, e.Key, e.reason)
}
