package domain

import "strings"

// Catalog holds the user-facing strings shown when a session ends or a call
// fails. Every field is required.
type Catalog struct {
	NoToken      string
	TokenExpired string
	NoUserData   string
	UserInactive string

	InvalidToken     string
	AccountBanned    string
	AccountInactive  string
	LoginAgain       string
	PermissionDenied string

	ServerError  string
	NetworkError string
	Unknown      string

	LoggedOut string

	// SignedIn is a format string taking the user's display name.
	SignedIn string
}

var english = Catalog{
	NoToken:      "You are not signed in.",
	TokenExpired: "Your session has expired. Please sign in again.",
	NoUserData:   "Your account details could not be found. Please sign in again.",
	UserInactive: "Your account is not active. Please contact support.",

	InvalidToken:     "Your session is invalid. Please sign in again.",
	AccountBanned:    "Your account has been locked. Please contact support.",
	AccountInactive:  "Your account is not active. Please contact support.",
	LoginAgain:       "Please sign in again.",
	PermissionDenied: "You do not have permission to perform this action.",

	ServerError:  "The server ran into a problem. Please try again later.",
	NetworkError: "Could not reach the server. Check your connection and try again.",
	Unknown:      "Something went wrong. Please try again.",

	LoggedOut: "You have been signed out.",
	SignedIn:  "Signed in as %s.",
}

var vietnamese = Catalog{
	NoToken:      "Bạn chưa đăng nhập.",
	TokenExpired: "Phiên đăng nhập đã hết hạn. Vui lòng đăng nhập lại.",
	NoUserData:   "Không tìm thấy thông tin tài khoản. Vui lòng đăng nhập lại.",
	UserInactive: "Tài khoản của bạn chưa được kích hoạt. Vui lòng liên hệ hỗ trợ.",

	InvalidToken:     "Phiên đăng nhập không hợp lệ. Vui lòng đăng nhập lại.",
	AccountBanned:    "Tài khoản của bạn đã bị khóa. Vui lòng liên hệ hỗ trợ.",
	AccountInactive:  "Tài khoản của bạn chưa được kích hoạt. Vui lòng liên hệ hỗ trợ.",
	LoginAgain:       "Vui lòng đăng nhập lại.",
	PermissionDenied: "Bạn không có quyền thực hiện thao tác này.",

	ServerError:  "Máy chủ gặp sự cố. Vui lòng thử lại sau.",
	NetworkError: "Không thể kết nối tới máy chủ. Vui lòng kiểm tra kết nối mạng.",
	Unknown:      "Đã có lỗi xảy ra. Vui lòng thử lại.",

	LoggedOut: "Bạn đã đăng xuất.",
	SignedIn:  "Đăng nhập thành công: %s.",
}

// Messages returns the catalog for locale ("en", "vi", "vi-VN", ...).
// Unknown locales get English.
func Messages(locale string) Catalog {
	lang, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(locale)), "-")
	lang, _, _ = strings.Cut(lang, "_")
	switch lang {
	case "vi":
		return vietnamese
	default:
		return english
	}
}

// ForReason returns the message for an invalid verdict reason.
func (c Catalog) ForReason(r Reason) string {
	switch r {
	case ReasonNoToken:
		return c.NoToken
	case ReasonTokenExpired:
		return c.TokenExpired
	case ReasonNoUserData:
		return c.NoUserData
	case ReasonUserInactive:
		return c.UserInactive
	default:
		return c.Unknown
	}
}

// ForAuthError returns the message for a classified backend auth failure.
func (c Catalog) ForAuthError(r AuthErrorReason) string {
	switch r {
	case AuthErrTokenExpired:
		return c.TokenExpired
	case AuthErrInvalidToken:
		return c.InvalidToken
	case AuthErrAccountBanned:
		return c.AccountBanned
	case AuthErrAccountInactive:
		return c.AccountInactive
	case AuthErrUnauthorized:
		return c.LoginAgain
	default:
		return c.Unknown
	}
}
