package domain

import (
	"regexp"
	"strings"
)

const (
	sourceSuffix      = ".csv.zip"
	destinationSuffix = ".avro"
	destinationPrefix = "dbr"
)

var schemePattern = regexp.MustCompile(`^[a-z][a-z0-9+.-]*$`)

// Locator is a fully qualified object location, e.g. s3://bucket/key.
type Locator struct {
	Scheme string
	Bucket string
	Key    string
}

func NewLocator(scheme, bucket, key string) (Locator, error) {
	loc := Locator{Scheme: scheme, Bucket: bucket, Key: key}

	switch {
	case !schemePattern.MatchString(scheme):
		return Locator{}, LocatorError{scheme, bucket, key, "scheme must be lower case letters, digits, '+', '-' or '.'"}
	case bucket == "":
		return Locator{}, LocatorError{scheme, bucket, key, "bucket is empty"}
	case strings.Contains(bucket, "/"):
		return Locator{}, LocatorError{scheme, bucket, key, "bucket contains '/'"}
	case key == "":
		return Locator{}, LocatorError{scheme, bucket, key, "key is empty"}
	}

	return loc, nil
}

// String renders the locator without escaping so the converter receives the
// key exactly as it appeared in the notification.
func (l Locator) String() string {
	return l.Scheme + "://" + l.Bucket + "/" + l.Key
}

// DestinationKey maps a billing export key to the key of its Avro output.
func DestinationKey(key string) string {
	return destinationPrefix + strings.TrimSuffix(key, sourceSuffix) + destinationSuffix
}
