package usecase

import "strings"

// Seller eligibility is decided by exclusion: an email domain counts as
// institutional unless it is a known consumer provider or looks disposable.
// This is a heuristic, not a verified allow-list; any domain outside both
// lists is accepted as-is.

var commercialDomains = map[string]struct{}{
	"gmail.com":      {},
	"googlemail.com": {},
	"yahoo.com":      {},
	"yahoo.co.uk":    {},
	"outlook.com":    {},
	"hotmail.com":    {},
	"live.com":       {},
	"msn.com":        {},
	"icloud.com":     {},
	"me.com":         {},
	"aol.com":        {},
	"proton.me":      {},
	"protonmail.com": {},
	"zoho.com":       {},
	"mail.com":       {},
	"yandex.com":     {},
	"gmx.com":        {},
	"gmx.net":        {},
}

var disposableKeywords = []string{
	"tempmail",
	"10minutemail",
	"guerrillamail",
	"mailinator",
	"trashmail",
	"disposable",
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}

func looksDisposable(domain string) bool {
	for _, keyword := range disposableKeywords {
		if strings.Contains(domain, keyword) {
			return true
		}
	}
	return false
}

// IsUniversityEmail reports whether the email's domain passes the seller
// eligibility heuristic.
func IsUniversityEmail(email string) bool {
	domain := emailDomain(email)
	if domain == "" {
		return false
	}
	if _, blocked := commercialDomains[domain]; blocked {
		return false
	}
	return !looksDisposable(domain)
}
