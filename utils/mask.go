package utils

import "strings"

// MaskEmail hides most of an address so it can go into logs.
// "porch@example.com" becomes "p***h@e******.com".
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return email
	}

	switch n := len(local); {
	case n > 2:
		local = local[:1] + strings.Repeat("*", n-2) + local[n-1:]
	case n == 2:
		local = local[:1] + "*"
	}

	labels := strings.Split(domain, ".")
	if len(labels) >= 2 && len(labels[0]) > 1 {
		labels[0] = labels[0][:1] + strings.Repeat("*", len(labels[0])-1)
	}
	return local + "@" + strings.Join(labels, ".")
}
