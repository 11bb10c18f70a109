package service

import (
	"io"
	"log/slog"
	"time"

	"github.com/segyhp/booking-engine/internal/domain"
)

var testNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time {
	return testNow
}

const testNonce = "a1b2c3d4"

func fixedNonce() string {
	return testNonce
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func investorSession() *domain.Session {
	return domain.NewSession("user-1", "investor@example.com", domain.RoleInvestor, "token-1")
}

func guestSession() *domain.Session {
	return domain.NewSession("user-2", "guest@example.com", domain.RoleGuest, "token-2")
}

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}
