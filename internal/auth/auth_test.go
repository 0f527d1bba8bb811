// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

func TestNewStatic_RejectsBadHash(t *testing.T) {
	if _, err := NewStatic("admin", "plaintext", ""); err == nil {
		t.Error("expected error for a non-bcrypt hash")
	}
	if _, err := NewStatic("", mustHash(t, "x"), ""); err == nil {
		t.Error("expected error for empty username")
	}
}

func TestAuthenticate_Password(t *testing.T) {
	a, err := NewStatic("admin", mustHash(t, "doğru-parola"), "")
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}
	ctx := context.Background()

	tests := []struct {
		name, user, pass string
		want             error
	}{
		{"ok", "admin", "doğru-parola", nil},
		{"wrong password", "admin", "yanlis", ErrInvalidCredentials},
		{"wrong user", "root", "doğru-parola", ErrInvalidCredentials},
		{"empty", "", "", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := a.Authenticate(ctx, tt.user, tt.pass, ""); !errors.Is(err, tt.want) {
				t.Errorf("Authenticate = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAuthenticate_TOTP(t *testing.T) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "Arvix", AccountName: "admin"})
	if err != nil {
		t.Fatal(err)
	}
	a, err := NewStatic("admin", mustHash(t, "pw"), strings.ToLower(key.Secret()))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := a.Authenticate(ctx, "admin", "pw", ""); !errors.Is(err, ErrCodeRequired) {
		t.Errorf("missing code: err = %v, want ErrCodeRequired", err)
	}
	if err := a.Authenticate(ctx, "admin", "pw", "000000x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad code: err = %v", err)
	}

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Authenticate(ctx, "admin", "pw", code); err != nil {
		t.Errorf("valid code: %v", err)
	}
	// A wrong password never reaches the code check.
	if err := a.Authenticate(ctx, "admin", "nope", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password with TOTP: err = %v", err)
	}
}

func TestEnrolment(t *testing.T) {
	plain, _ := NewStatic("admin", mustHash(t, "pw"), "")
	if _, err := plain.EnrolmentQR("Arvix", 256); !errors.Is(err, ErrTOTPDisabled) {
		t.Errorf("err = %v, want ErrTOTPDisabled", err)
	}

	a, _ := NewStatic("admin", mustHash(t, "pw"), "JBSWY3DPEHPK3PXP")
	u, err := a.EnrolmentURL("Arvix")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(u, "otpauth://totp/Arvix:admin?") || !strings.Contains(u, "secret=JBSWY3DPEHPK3PXP") {
		t.Errorf("EnrolmentURL = %q", u)
	}

	png, err := a.EnrolmentQR("Arvix", 128)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("QR output is not a PNG")
	}
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	a, err := NewStatic("admin", h, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Authenticate(context.Background(), "admin", "s3cret", ""); err != nil {
		t.Errorf("Authenticate with generated hash: %v", err)
	}
}
