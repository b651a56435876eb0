package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "petstore/internal/log"
	"petstore/internal/services"
	"petstore/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type smsBody struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

func (h *AuthHandler) SendCode(c *fiber.Ctx) error {
	var body smsBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}
	phone, ok := validate.Phone(body.Phone)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid phone")
	}

	if err := h.Auth.SendCode(phone); err != nil {
		applog.Error(c, "sms.send_code.fail", err, map[string]any{"phone": phone})
		return storeError(c, err)
	}

	applog.Audit(c, "sms.send_code", map[string]any{"phone": phone})
	return c.JSON(fiber.Map{"ok": true})
}

func (h *AuthHandler) VerifyCode(c *fiber.Ctx) error {
	var body smsBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}
	phone, ok := validate.Phone(body.Phone)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid phone")
	}
	code, ok := validate.SmsCode(body.Code)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid code")
	}

	token, err := h.Auth.VerifyCode(phone, code)
	if err != nil {
		if errors.Is(err, services.ErrBadCode) || errors.Is(err, services.ErrCodeExpired) {
			applog.Security(c, "sms.verify_code.fail", map[string]any{"phone": phone})
			return jsonError(c, fiber.StatusUnauthorized, "invalid phone or code")
		}
		return storeError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "csrf_token",
		Value:    token,
		Path:     "/",
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
	})

	applog.Audit(c, "sms.verify_code", map[string]any{"phone": phone})
	return c.JSON(fiber.Map{"ok": true})
}
