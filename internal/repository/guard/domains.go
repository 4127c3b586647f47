package guard

var disposableDomains = map[string]struct{}{
	"10minutemail.com":  {},
	"20minutemail.com":  {},
	"burnermail.io":     {},
	"discard.email":     {},
	"dispostable.com":   {},
	"emailfake.com":     {},
	"emailondeck.com":   {},
	"fakeinbox.com":     {},
	"getnada.com":       {},
	"guerrillamail.com": {},
	"guerrillamail.net": {},
	"inboxkitten.com":   {},
	"mailcatch.com":     {},
	"maildrop.cc":       {},
	"mailinator.com":    {},
	"mailnesia.com":     {},
	"mintemail.com":     {},
	"moakt.com":         {},
	"mohmal.com":        {},
	"mytemp.email":      {},
	"sharklasers.com":   {},
	"spambox.us":        {},
	"spamgourmet.com":   {},
	"temp-mail.org":     {},
	"tempinbox.com":     {},
	"tempmail.com":      {},
	"tempr.email":       {},
	"throwawaymail.com": {},
	"trashmail.com":     {},
	"yopmail.com":       {},
}

var freeDomains = map[string]struct{}{
	"aol.com":        {},
	"gmail.com":      {},
	"gmx.com":        {},
	"googlemail.com": {},
	"hotmail.com":    {},
	"icloud.com":     {},
	"live.com":       {},
	"mail.com":       {},
	"outlook.com":    {},
	"proton.me":      {},
	"protonmail.com": {},
	"yahoo.com":      {},
	"yandex.com":     {},
	"zoho.com":       {},
}
