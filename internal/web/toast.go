package web

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

const toastCookie = "toast"

const (
	variantDefault     = "default"
	variantDestructive = "destructive"
)

// toast is a one-shot notification shown on the next rendered page.
type toast struct {
	Title       string `json:"t"`
	Description string `json:"d"`
	Variant     string `json:"v"`
}

func setToast(ctx *fiber.Ctx, t toast) {
	raw, err := json.Marshal(t)
	if err != nil {
		return
	}
	ctx.Cookie(&fiber.Cookie{
		Name:        toastCookie,
		Value:       base64.RawURLEncoding.EncodeToString(raw),
		Path:        "/",
		HTTPOnly:    true,
		SameSite:    fiber.CookieSameSiteLaxMode,
		SessionOnly: true,
	})
}

// popToast reads the pending toast and expires its cookie.
func popToast(ctx *fiber.Ctx) *toast {
	value := ctx.Cookies(toastCookie)
	if value == "" {
		return nil
	}
	ctx.Cookie(&fiber.Cookie{
		Name:    toastCookie,
		Path:    "/",
		Expires: time.Unix(0, 0),
	})
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var t toast
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil
	}
	return &t
}
