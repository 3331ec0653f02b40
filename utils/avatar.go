package utils

import "net/url"

// DefaultAvatar avatar inisial DiceBear untuk user baru.
func DefaultAvatar(fullName string) string {
	return "https://api.dicebear.com/7.x/initials/png?seed=" + url.QueryEscape(fullName) +
		"&size=256&backgroundType=gradientLinear"
}
