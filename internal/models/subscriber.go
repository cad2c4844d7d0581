package models

import "github.com/samber/lo"

type Subscriber struct {
  Service       []string `json:"service"`
  ToPhoneNumber string   `json:"to_phone_number"`
  Active        bool     `json:"active"`
}

// Matches reports whether an active subscriber is subscribed to the provider.
func (s Subscriber) Matches(key ProviderKey) bool {
  return s.Active && lo.Contains(s.Service, key)
}
