// Package util provides utility functions for content hashing and tag parsing.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func ContentHashString(content string) string {
	return ContentHash([]byte(content))
}

// ParseTagList splits a comma-separated tag string into trimmed, non-empty
// labels. Duplicates are collapsed; order is preserved.
func ParseTagList(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	return tags
}

// JoinTagList is the inverse of ParseTagList, used for flat storage.
func JoinTagList(tags []string) string {
	return strings.Join(tags, ",")
}
