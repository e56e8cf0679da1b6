package domain_test

import (
	"testing"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/stretchr/testify/require"
)

func TestMessagesLocale(t *testing.T) {
	require.Equal(t, domain.Messages("vi"), domain.Messages("vi-VN"))
	require.Equal(t, domain.Messages("en"), domain.Messages("fr"))
	require.NotEqual(t, domain.Messages("en").TokenExpired, domain.Messages("vi").TokenExpired)
}

func TestCatalogHasEveryReason(t *testing.T) {
	for _, locale := range []string{"en", "vi"} {
		c := domain.Messages(locale)

		for _, r := range []domain.Reason{
			domain.ReasonNoToken, domain.ReasonTokenExpired,
			domain.ReasonNoUserData, domain.ReasonUserInactive,
		} {
			require.NotEmpty(t, c.ForReason(r), "%s/%s", locale, r)
			require.NotEqual(t, c.Unknown, c.ForReason(r), "%s/%s", locale, r)
		}

		require.Equal(t, c.TokenExpired, c.ForAuthError(domain.AuthErrTokenExpired))
		require.Equal(t, c.LoginAgain, c.ForAuthError(domain.AuthErrUnauthorized))
	}
}
