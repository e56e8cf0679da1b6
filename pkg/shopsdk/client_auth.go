package shopsdk

import (
	"context"
	"net/http"
)

// Login exchanges email and password for an access token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   req,
		public: true,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/register",
		body:   req,
		public: true,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendOTP asks the backend to email a one-time code.
func (c *Client) SendOTP(ctx context.Context, req OTPRequest) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/otp/send",
		body:   req,
		public: true,
	})
}

func (c *Client) VerifyOTP(ctx context.Context, req OTPVerifyRequest) (*OTPVerifyResponse, error) {
	var resp OTPVerifyResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/otp/verify",
		body:   req,
		public: true,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetPassword sets a new password with the reset token from VerifyOTP.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/reset-password",
		body:   req,
		public: true,
	})
}
