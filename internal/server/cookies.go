package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookiePolicy carries the session cookie attributes as data. The
// SameSite split between environments is decided once at startup, not
// per request.
type CookiePolicy struct {
	Name     string
	Secure   bool
	SameSite string
	TTL      time.Duration
}

// Session builds the cookie carrying a freshly issued token.
func (p CookiePolicy) Session(token string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     p.Name,
		Value:    token,
		Expires:  time.Now().Add(p.TTL),
		MaxAge:   int(p.TTL / time.Second),
		HTTPOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	}
}

// Expired builds the clearing cookie. Browsers only drop a cookie when
// the clearing attributes match the ones it was set with, so this
// mirrors Session exactly apart from value and expiry.
func (p CookiePolicy) Expired() *fiber.Cookie {
	return &fiber.Cookie{
		Name:     p.Name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	}
}
