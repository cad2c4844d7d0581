package stringer

import (
  "strings"

  "github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

func StripTags(s string) string {
  return strings.TrimSpace(policy.Sanitize(s))
}

func ContainsStrings(s string, parts ...string) bool {
  for _, part := range parts {
    if !strings.Contains(s, part) {
      return false
    }
  }
  return true
}
