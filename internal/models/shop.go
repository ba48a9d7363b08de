package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Theme is a shop's preferred client theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
}

// Shop is a shop owner's profile.
type Shop struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	MobileNumber string    `json:"mobile_number"`
	LogoPath     string    `json:"logo_path"`
	Theme        Theme     `json:"theme"`
	UpdatedAt    time.Time `json:"updated_at"`
}
