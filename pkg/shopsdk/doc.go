/*
Package shopsdk is a client for the storefront backend REST API.

# Overview

The backend owns all business rules (pricing, stock, order lifecycle). This
package only moves JSON back and forth and turns failures into *APIError
values.

	client := shopsdk.NewClient("https://shop.example.com",
		shopsdk.WithTokenSource(tokens),
		shopsdk.WithInterceptor(interceptor),
	)

	page, err := client.ListProducts(ctx, shopsdk.ProductQuery{Keyword: "shirt"})

# Authentication

Every call except login, register, OTP and password reset carries
"Authorization: Bearer <token>" when the TokenSource has a session. The token
is never verified locally.

# Errors

Failed calls return *APIError. StatusCode is zero for network failures.
Before it is returned the error is passed to the ErrorInterceptor, which may
end the session on 401/403 and set Handled:

	if apiErr, ok := shopsdk.AsAPIError(err); ok && apiErr.Handled {
		return // already reported to the user
	}

# Social login

AuthorizeURL builds the provider URL with a PKCE challenge; ParseCallback and
ExchangeCode finish the redirect:

	verifier := oauth2.GenerateVerifier()
	link := client.AuthorizeURL("google", state, verifier)
	// ... user signs in and is redirected back ...
	cb, err := shopsdk.ParseCallback(redirected)
	token, err := client.ExchangeCode(ctx, "google", cb.Code, verifier)
*/
package shopsdk
