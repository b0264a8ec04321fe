// Package version tracks the dataframe API standard revisions this adapter
// layer implements. Every Column and DataFrame carries an api-version tag;
// construction validates the tag against the supported set.
package version

import (
	"fmt"
	"sort"
)

// Supported standard revisions, oldest first. The tag format follows the
// standard's calendar scheme: YYYY.MM with an optional stability suffix.
const (
	APIVersion2023_08 = "2023.08-beta"
	APIVersion2023_11 = "2023.11-beta"

	// Default is the revision assumed when the caller passes an empty tag.
	Default = APIVersion2023_11
)

var supported = map[string]struct{}{
	APIVersion2023_08: {},
	APIVersion2023_11: {},
}

// Supported returns the supported revision tags in ascending order.
func Supported() []string {
	tags := make([]string, 0, len(supported))
	for tag := range supported {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Validate resolves an api-version tag: empty selects the default, a known
// tag passes through, anything else is rejected.
func Validate(tag string) (string, error) {
	if tag == "" {
		return Default, nil
	}
	if _, ok := supported[tag]; !ok {
		return "", fmt.Errorf("unsupported api version %q (supported: %v)", tag, Supported())
	}
	return tag, nil
}
